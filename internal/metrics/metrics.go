package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "avatar"

// Metrics - все метрики процесса. Регистрируются в собственном реестре,
// глобальный prometheus.DefaultRegisterer не трогаем (тесты создают много экземпляров).
type Metrics struct {
	Registry *prometheus.Registry

	// DispatchCounter - вызовы реестра действий.
	// Labels: method, code (OK или код ошибки)
	DispatchCounter *prometheus.CounterVec

	// DispatchDuration - время выполнения хендлера в секундах.
	// Labels: method
	DispatchDuration *prometheus.HistogramVec

	// ActiveConnections - открытые соединения по транспорту (tcp, ws)
	ActiveConnections *prometheus.GaugeVec

	// ProtocolErrors - ошибки уровня протокола по коду JSON-RPC
	ProtocolErrors *prometheus.CounterVec

	// AuthFailures - неверные токены
	AuthFailures prometheus.Counter

	// TaskQueueDepth - задачи, ждущие потока симуляции
	TaskQueueDepth prometheus.Gauge

	// TickDuration - длительность одного тика симуляции
	TickDuration prometheus.Histogram

	// Agents - живые агенты после последнего тика
	Agents prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		DispatchCounter: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Action registry dispatches by method and result code.",
		}, []string{"method", "code"}),
		DispatchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Handler execution time.",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"method"}),
		ActiveConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Open client connections by transport.",
		}, []string{"transport"}),
		ProtocolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Protocol level errors by JSON-RPC code.",
		}, []string{"code"}),
		AuthFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected auth attempts.",
		}),
		TaskQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "task_queue_depth",
			Help:      "Tasks waiting for the simulation goroutine.",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of one simulation tick.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
		}),
		Agents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "agents",
			Help:      "Agents present in the world.",
		}),
	}
}

// ObserveDispatch подключается к реестру действий
func (m *Metrics) ObserveDispatch(method, code string, elapsed time.Duration) {
	m.DispatchCounter.WithLabelValues(method, code).Inc()
	m.DispatchDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ConnectionOpened(transport string) {
	m.ActiveConnections.WithLabelValues(transport).Inc()
}

func (m *Metrics) ConnectionClosed(transport string) {
	m.ActiveConnections.WithLabelValues(transport).Dec()
}

func (m *Metrics) ProtocolError(code int) {
	m.ProtocolErrors.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) AuthFailed() {
	m.AuthFailures.Inc()
}

func (m *Metrics) ObserveTick(elapsed time.Duration, queueDepth, agents int) {
	m.TickDuration.Observe(elapsed.Seconds())
	m.TaskQueueDepth.Set(float64(queueDepth))
	m.Agents.Set(float64(agents))
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
