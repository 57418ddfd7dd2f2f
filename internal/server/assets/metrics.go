package assets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	retireDeleted = "deleted"
	retireMissing = "missing"
	retireFailed  = "failed"
)

var assetRetirements = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipebox_asset_retirements_total",
		Help: "Total number of superseded or orphaned assets retired, by result",
	},
	[]string{"result"},
)
