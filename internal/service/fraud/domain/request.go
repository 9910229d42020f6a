package domain

import "net/http"

// RequestContext 是发起结账请求的连接信息，由接口层显式传入。
type RequestContext struct {
	Headers    http.Header
	RemoteAddr string
}

// Header 按规范化名称查找请求头，找不到时再尝试全小写的键。
func (r RequestContext) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	if v, ok := r.Headers[http.CanonicalHeaderKey(name)]; ok && len(v) > 0 {
		return v[0]
	}
	if v, ok := r.Headers[name]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
