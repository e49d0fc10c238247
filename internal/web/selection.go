package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
	"github.com/omarshaarawi/ffdash/internal/service"
)

const sessionCookie = "ffdash_session"

// parseSelection overlays the query on defaults. The team list is only taken
// from the query once the form has been submitted (filtered=1) or a team is
// named, so an explicitly emptied selection stays empty.
func parseSelection(q url.Values, defaults models.Selection) (models.Selection, []string, error) {
	sel := defaults
	var unmatched []string

	if q.Get("filtered") != "" || q.Has("team") {
		sel.Teams, unmatched = present.ResolveTeams(q["team"], defaults.Teams)
	}

	var err error
	if v := q.Get("start"); v != "" {
		if sel.StartWeek, err = strconv.Atoi(v); err != nil {
			return sel, nil, fmt.Errorf("%w: start week %q", service.ErrInvalidSelection, v)
		}
	}
	if v := q.Get("end"); v != "" {
		if sel.EndWeek, err = strconv.Atoi(v); err != nil {
			return sel, nil, fmt.Errorf("%w: end week %q", service.ErrInvalidSelection, v)
		}
	}
	if v := q.Get("position"); v != "" {
		sel.Position = v
	}
	if q.Has("scope") {
		if sel.Scope, err = models.ParseWeekScope(q.Get("scope")); err != nil {
			return sel, nil, fmt.Errorf("%w: %v", service.ErrInvalidSelection, err)
		}
	}
	return sel, unmatched, nil
}

// sessionID returns the caller's session id, issuing a cookie on first visit.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
