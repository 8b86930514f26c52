package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
)

// principalFrom writes a 401 and reports false when the request carries no caller.
func principalFrom(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, err := auth.PrincipalFrom(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return auth.Principal{}, false
	}
	return principal, true
}

// monthQueryParam reads ?month=YYYY-MM, defaulting to the current month.
func monthQueryParam(r *http.Request) (shift.Month, error) {
	val := r.URL.Query().Get("month")
	if val == "" {
		return shift.MonthOf(time.Now()), nil
	}
	return shift.ParseMonth(val)
}

// optionalBoolQueryParam returns nil when key is absent or not a bool.
func optionalBoolQueryParam(r *http.Request, key string) *bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &b
}

func monthMeta(month shift.Month, count int) response.Meta {
	return response.Meta{Month: month.String(), Count: count}
}
