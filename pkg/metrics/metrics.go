package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics счетчики одного запуска CLI
// Регистр приватный: процесс короткоживущий, метрики выгружаются в textfile
type Metrics struct {
	registry *prometheus.Registry

	messagesTotal  *prometheus.CounterVec
	segmentsTotal  prometheus.Counter
	deletedTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	lastRun        prometheus.Gauge
}

// New создает и регистрирует метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "messages_total",
			Help:      "Messages sent through the Bot API by kind and status.",
		}, []string{"kind", "status"}),
		segmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "text_segments_total",
			Help:      "Text segments produced by splitting long messages.",
		}),
		deletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "deleted_messages_total",
			Help:      "Delete requests by status.",
		}, []string{"status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "request_duration_seconds",
			Help:      "Bot API request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last run.",
		}),
	}

	m.registry.MustRegister(m.messagesTotal, m.segmentsTotal, m.deletedTotal, m.requestLatency, m.lastRun)

	return m
}

// ObserveMessage учитывает отправку одного сообщения
func (m *Metrics) ObserveMessage(kind string, err error) {
	m.messagesTotal.WithLabelValues(kind, status(err)).Inc()
}

// ObserveSegments учитывает количество сегментов разбитого текста
func (m *Metrics) ObserveSegments(n int) {
	m.segmentsTotal.Add(float64(n))
}

// ObserveDelete учитывает запрос на удаление
func (m *Metrics) ObserveDelete(err error) {
	m.deletedTotal.WithLabelValues(status(err)).Inc()
}

// ObserveRequest учитывает длительность запроса к Bot API
func (m *Metrics) ObserveRequest(method string, started time.Time) {
	m.requestLatency.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

// WriteToTextfile записывает метрики в формате textfile collector (node_exporter)
func (m *Metrics) WriteToTextfile(path string) error {
	m.lastRun.SetToCurrentTime()

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
