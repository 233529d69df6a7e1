package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spindon_user_registrations_total",
		Help: "Number of successfully registered users.",
	})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spindon_login_attempts_total",
		Help: "Number of login attempts by outcome.",
	}, []string{"status"})

	SpendingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spindon_spendings_created_total",
		Help: "Number of spending records created.",
	})

	CategoriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spindon_categories_created_total",
		Help: "Number of custom categories created.",
	})

	GoalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spindon_goals_created_total",
		Help: "Number of spending goals created.",
	})

	IncomesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spindon_incomes_created_total",
		Help: "Number of income records created.",
	})
)
