package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-accounts/internal/account"
	"github.com/nerrad567/gray-logic-accounts/internal/auth"
)

// dateLayout is the accepted short form for startDate and endDate.
const dateLayout = "2006-01-02"

// registerResponse is the response body for POST /register.
type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// loginResponse is the response body for POST /login.
type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
}

// verifyRequest is the request body for POST /verify.
type verifyRequest struct {
	Email string `json:"email"`
}

// messageResponse is a body carrying only a human-readable message.
type messageResponse struct {
	Message string `json:"message"`
}

// meResponse is the response body for GET /auth/me.
type meResponse struct {
	AccountID string        `json:"account_id"`
	Email     string        `json:"email"`
	Admin     bool          `json:"admin"`
	ExpiresAt time.Time     `json:"expires_at"`
	Account   *auth.Account `json:"account"`
}

// rowsResponse wraps a report that has no pagination.
type rowsResponse struct {
	Rows []auth.Account `json:"rows"`
}

// inactiveResponse is the response body for GET /users/inactive.
type inactiveResponse struct {
	Period string         `json:"period"`
	Rows   []auth.Account `json:"rows"`
}

// decodeJSON reads the request body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// handleRegister creates an unverified account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	acc, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "account registered, verification required before login",
		ID:      acc.ID,
	})
}

// handleLogin authenticates an account and returns a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req account.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.accounts.Authenticate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		ExpiresIn: int(s.tokens.TTL().Seconds()),
	})
}

// handleVerify marks the account with the given email as verified.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.accounts.Verify(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, r, "verify", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "account verified"})
}

// handleMe returns the identity carried by the token and the current profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	acc, err := s.accounts.Get(r.Context(), claims.AccountID())
	if err != nil {
		s.writeServiceError(w, r, "get current account", err)
		return
	}

	resp := meResponse{
		AccountID: claims.AccountID(),
		Email:     claims.Email,
		Admin:     claims.IsAdmin(),
		Account:   acc,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ownAccountID returns the {id} path parameter when the caller may act on it.
// Otherwise it writes a 403 and returns false.
func ownAccountID(w http.ResponseWriter, r *http.Request) (string, *auth.Claims, bool) {
	id := chi.URLParam(r, "id")
	claims := claimsFromContext(r.Context())
	if claims == nil || !claims.CanAccess(id) {
		writeForbidden(w, "cannot access another account")
		return "", nil, false
	}
	return id, claims, true
}

// handleGetUser returns an account profile.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, _, ok := ownAccountID(w, r)
	if !ok {
		return
	}

	acc, err := s.accounts.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, "get account", err)
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

// handleUpdateUser applies a partial profile update.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := ownAccountID(w, r)
	if !ok {
		return
	}

	var req account.UpdateInput
	if !decodeJSON(w, r, &req) {
		return
	}

	acc, err := s.accounts.Update(r.Context(), claims.AccountID(), id, req)
	if err != nil {
		s.writeServiceError(w, r, "update account", err)
		return
	}

	writeJSON(w, http.StatusOK, acc)
}

// handleDeleteUser removes an account.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, claims, ok := ownAccountID(w, r)
	if !ok {
		return
	}

	if err := s.accounts.Delete(r.Context(), claims.AccountID(), id); err != nil {
		s.writeServiceError(w, r, "delete account", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "account deleted"})
}

// handleListUsers returns one filtered page of accounts.
//
// Query parameters:
//   - page, limit: pagination (default 1 and 10, limit capped at 100)
//   - name, email: substring match
//   - verified: true or false
//   - startDate, endDate: registration range, RFC 3339 or YYYY-MM-DD.
//     A date-only endDate covers the whole day.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	filter, verr := parseAccountFilter(r)
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	page, err := s.accounts.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, "list accounts", err)
		return
	}
	if page.Rows == nil {
		page.Rows = []auth.Account{}
	}

	writeJSON(w, http.StatusOK, page)
}

// handleTopLogins returns the three accounts with the most logins.
func (s *Server) handleTopLogins(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.TopLogins(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "top logins", err)
		return
	}
	if rows == nil {
		rows = []auth.Account{}
	}

	writeJSON(w, http.StatusOK, rowsResponse{Rows: rows})
}

// handleInactiveUsers returns accounts whose last login is older than period.
func (s *Server) handleInactiveUsers(w http.ResponseWriter, r *http.Request) {
	window, rows, err := s.accounts.Inactive(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		s.writeServiceError(w, r, "inactive accounts", err)
		return
	}
	if rows == nil {
		rows = []auth.Account{}
	}

	writeJSON(w, http.StatusOK, inactiveResponse{Period: string(window), Rows: rows})
}

// parseAccountFilter reads the listing filters from the query string.
// Every unparseable parameter is reported, not just the first.
func parseAccountFilter(r *http.Request) (auth.AccountFilter, *auth.ValidationError) {
	q := r.URL.Query()
	fields := make(map[string]string)
	filter := auth.AccountFilter{
		Name:  q.Get("name"),
		Email: q.Get("email"),
	}

	filter.Page = parseIntParam(q.Get("page"), "page", fields)
	filter.Limit = parseIntParam(q.Get("limit"), "limit", fields)

	if v := q.Get("verified"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fields["verified"] = "must be true or false"
		} else {
			filter.Verified = &b
		}
	}

	if v := q.Get("startDate"); v != "" {
		if t, ok := parseDateParam(v, false); ok {
			filter.RegisteredFrom = &t
		} else {
			fields["startDate"] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
		}
	}
	if v := q.Get("endDate"); v != "" {
		if t, ok := parseDateParam(v, true); ok {
			filter.RegisteredTo = &t
		} else {
			fields["endDate"] = "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
		}
	}

	if len(fields) > 0 {
		return filter, auth.NewValidationError("invalid query parameters", fields)
	}
	return filter, nil
}

// parseIntParam parses an optional integer parameter. Zero means absent.
func parseIntParam(v, name string, fields map[string]string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fields[name] = "must be an integer"
		return 0
	}
	return n
}

// parseDateParam accepts RFC 3339 or a bare date. A bare date is the start
// of that day in UTC, or its last second when endOfDay is set.
func parseDateParam(v string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, true
}
