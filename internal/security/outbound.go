// Package security 提供应用的安全能力：
// 对外请求的端点防护与用户提交内容的净化。
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// EndpointGuardService 定义对外HTTP端点的防护接口。
// AI 接入点允许按请求覆盖，覆盖值来自调用方，必须经过本防护再使用。
type EndpointGuardService interface {
	// NewSafeClient 生成带SSRF防护的HTTP客户端。
	// safeurl 在 Dialer 层校验DNS解析后的IP，私网、环回、
	// 链路本地与云元数据地址的请求都会被拒绝。
	NewSafeClient(timeout time.Duration) *http.Client

	// ValidateURL 对URL做静态预检：协议、主机与IP段校验。
	// DNS重绑定攻击由 NewSafeClient 的拨号层防护兜底。
	ValidateURL(rawURL string) error
}

// allowedSchemes 是允许的URL协议。
var allowedSchemes = []string{"http", "https"}

// blockedNetworks 是静态预检拒绝的网段，包初始化时解析一次。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		// 私有网段 (RFC 1918)
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		// 环回 (RFC 1122)
		"127.0.0.0/8",
		// 链路本地 (RFC 3927)，含云元数据IP 169.254.169.254
		"169.254.0.0/16",
		// 当前网络
		"0.0.0.0/8",
		// IPv6 环回
		"::1/128",
		// IPv6 链路本地
		"fe80::/10",
		// IPv6 唯一本地
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// endpointGuard 是 EndpointGuardService 的实现。
type endpointGuard struct{}

// NewEndpointGuard 生成 EndpointGuardService 实例。
func NewEndpointGuard() *endpointGuard {
	return &endpointGuard{}
}

// NewSafeClient 生成带SSRF防护的HTTP客户端，仅允许 http/https 与 80/443 端口。
func (g *endpointGuard) NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	wrappedClient := safeurl.Client(config)
	return wrappedClient.Client
}

// ValidateURL 对URL做静态预检，在发起请求前尽早拒绝明显危险的端点。
func (g *endpointGuard) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !isAllowedScheme(scheme) {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("blocked IP address: %s", ip.String())
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}

// isAllowedScheme 校验协议是否在允许列表中。
func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isBlockedIP 校验IP是否落在拒绝网段内。
func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
