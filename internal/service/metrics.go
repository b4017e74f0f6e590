package service

import "github.com/prometheus/client_golang/prometheus"

var (
	usersLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "users_live", Help: "Number of users currently held in memory",
	})
	validationRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "user_validation_rejected_total", Help: "Business-rule rejections by operation"},
		[]string{"op"},
	)
)

func init() { prometheus.MustRegister(usersLive, validationRejected) }
