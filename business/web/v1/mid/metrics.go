package mid

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/bounty/business/sys/metrics"
	"github.com/ardanlabs/bounty/foundation/web"
)

// Metrics updates program counters.
func Metrics(m *metrics.Metrics) web.Middleware {
	mw := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			start := time.Now()

			err := handler(ctx, w, r)

			status := http.StatusOK
			if v, verr := web.GetValues(ctx); verr == nil && v.StatusCode != 0 {
				status = v.StatusCode
			}

			m.Requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			m.Duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			if status >= http.StatusBadRequest {
				m.Errors.WithLabelValues(strconv.Itoa(status)).Inc()
			}

			return err
		}

		return h
	}

	return mw
}
