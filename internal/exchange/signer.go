package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// param 是一个请求参数键值对
type param struct {
	name  string
	value string
}

// paramList 按插入顺序保存请求参数
// 签名串的参数顺序必须与发送顺序完全一致，绝不能按字典序重排，
// 否则交易所会因签名不匹配拒绝请求
type paramList struct {
	params []param
}

func newParamList() *paramList {
	return &paramList{}
}

// Add 追加一个参数，保持插入顺序
func (p *paramList) Add(name, value string) *paramList {
	p.params = append(p.params, param{name: name, value: value})
	return p
}

// Encode 生成 name=value&name=value 形式的规范化参数串
func (p *paramList) Encode() string {
	pairs := make([]string, 0, len(p.params))
	for _, item := range p.params {
		pairs = append(pairs, item.name+"="+item.value)
	}
	return strings.Join(pairs, "&")
}

// Sign 对规范化参数串计算 HMAC-SHA256 签名并追加 signature 参数，
// 返回最终可直接发送的参数串；signature 本身不参与签名输入
func (p *paramList) Sign(secretKey string) string {
	payload := p.Encode()
	signature := Sign(secretKey, payload)
	return payload + "&signature=" + signature
}

// Sign 用密钥对消息计算 HMAC-SHA256 签名，返回十六进制字符串
func Sign(secretKey, message string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
