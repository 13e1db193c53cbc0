package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tweeter_signups_total",
		Help: "Accounts created.",
	})
	SigninsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tweeter_signins_total",
		Help: "Successful signins.",
	})
	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tweeter_posts_created_total",
		Help: "Posts created.",
	})
	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweeter_like_toggles_total",
		Help: "Like toggles by resulting direction.",
	}, []string{"direction"})
)

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
