package api

import (
	"net/http"

	"github.com/nerrad567/gray-logic-accounts/internal/audit"
	"github.com/nerrad567/gray-logic-accounts/internal/auth"
)

// handleListAuditLogs returns paginated audit log entries with optional filters.
//
// Query parameters:
//   - action: filter by action (register, verify, login, update, delete)
//   - entity_id: filter by the account acted upon
//   - user_id: filter by the acting account
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeInternalError(w, "audit logging not configured")
		return
	}

	q := r.URL.Query()
	fields := make(map[string]string)
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: audit.EntityAccount,
		EntityID:   q.Get("entity_id"),
		UserID:     q.Get("user_id"),
		Limit:      parseIntParam(q.Get("limit"), "limit", fields),
		Offset:     parseIntParam(q.Get("offset"), "offset", fields),
	}
	if filter.Offset < 0 {
		fields["offset"] = "must not be negative"
	}
	if len(fields) > 0 {
		writeValidationError(w, auth.NewValidationError("invalid query parameters", fields))
		return
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		writeInternalError(w, "failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
