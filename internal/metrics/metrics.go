// Package metrics 提供 Prometheus 指标的收集与暴露。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 是指标收集接口，由服务层与中间件调用。
type Recorder interface {
	RecordHTTPStatus(statusCode int)
	RecordGenerationSuccess()
	RecordGenerationFailure()
	RecordPolicyBlock(stage string)
	RecordItemsImported(count int)
	RecordStorageWriteFailure(collection string)
}

// Collector 是基于 Prometheus 的 Recorder 实现。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	generationOK     prometheus.Counter
	generationFail   prometheus.Counter
	policyBlock      *prometheus.CounterVec
	itemsImported    prometheus.Counter
	storageWriteFail *prometheus.CounterVec
}

// NewCollector 生成 Collector 并将指标注册到指定 registry。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vfnews_http_status_total",
			Help: "按HTTP状态码统计的响应数",
		}, []string{"status_code"}),
		generationOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vfnews_generation_success_total",
			Help: "AI生成成功的累计次数",
		}),
		generationFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vfnews_generation_fail_total",
			Help: "AI生成失败的累计次数",
		}),
		policyBlock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vfnews_policy_block_total",
			Help: "按阶段统计的内容合规拦截次数",
		}, []string{"stage"}),
		itemsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vfnews_items_imported_total",
			Help: "批量导入的新闻条目累计数",
		}),
		storageWriteFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vfnews_storage_write_fail_total",
			Help: "按集合统计的存储写入失败次数",
		}, []string{"collection"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.generationOK,
		c.generationFail,
		c.policyBlock,
		c.itemsImported,
		c.storageWriteFail,
	)

	return c
}

// RecordHTTPStatus 记录HTTP响应状态码。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordGenerationSuccess 记录一次AI生成成功。
func (c *Collector) RecordGenerationSuccess() {
	c.generationOK.Inc()
}

// RecordGenerationFailure 记录一次AI生成失败。
func (c *Collector) RecordGenerationFailure() {
	c.generationFail.Inc()
}

// RecordPolicyBlock 记录一次合规拦截。stage 标识发生拦截的写入路径。
func (c *Collector) RecordPolicyBlock(stage string) {
	c.policyBlock.WithLabelValues(stage).Inc()
}

// RecordItemsImported 记录批量导入的条目数。
func (c *Collector) RecordItemsImported(count int) {
	c.itemsImported.Add(float64(count))
}

// RecordStorageWriteFailure 记录一次存储写入失败。
func (c *Collector) RecordStorageWriteFailure(collection string) {
	c.storageWriteFail.WithLabelValues(collection).Inc()
}

var _ Recorder = (*Collector)(nil)

// Handler 返回 Prometheus 抓取用的HTTP处理器。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
