package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	outcomeOK     = "ok"
	outcomeNoop   = "noop"
	outcomeFailed = "failed"
)

var recipeMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipebox_recipe_mutations_total",
		Help: "Total number of recipe mutations, by operation and outcome",
	},
	[]string{"operation", "outcome"},
)
