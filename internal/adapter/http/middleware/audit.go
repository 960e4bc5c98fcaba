package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"growfi-backend/internal/core/domain"
	"growfi-backend/internal/core/ports"
	"growfi-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// Actions are keyed by the matched route template, so unmatched paths are skipped.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *int64
		if uid, ok := UserID(c); ok {
			userID = &uid
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(response.CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

var routeActions = map[string]struct {
	action       domain.AuditAction
	resourceType string
}{
	"POST /api/v1/auth/register":              {domain.AuditActionRegister, "user"},
	"POST /api/v1/auth/login":                 {domain.AuditActionLogin, "session"},
	"POST /api/v1/auth/logout":                {domain.AuditActionLogout, "session"},
	"POST /api/v1/wallet/":                    {domain.AuditActionWalletCreate, "wallet"},
	"PUT /api/v1/wallet/:id":                  {domain.AuditActionWalletUpdate, "wallet"},
	"DELETE /api/v1/wallet/:id":               {domain.AuditActionWalletDelete, "wallet"},
	"PATCH /api/v1/wallet/:id/assign-goal":    {domain.AuditActionAssignGoal, "wallet"},
	"PATCH /api/v1/wallet/:id/assign-expense": {domain.AuditActionAssignExpense, "wallet"},
	"POST /api/v1/goals":                      {domain.AuditActionGoalCreate, "goal"},
	"PUT /api/v1/goals/:id":                   {domain.AuditActionGoalUpdate, "goal"},
	"DELETE /api/v1/goals/:id":                {domain.AuditActionGoalDelete, "goal"},
	"POST /api/v1/expenses":                   {domain.AuditActionExpenseCreate, "expense"},
	"PUT /api/v1/expenses/:id":                {domain.AuditActionExpenseUpdate, "expense"},
	"DELETE /api/v1/expenses/:id":             {domain.AuditActionExpenseDelete, "expense"},
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	ra, ok := routeActions[method+" "+route]
	if !ok {
		return "", ""
	}
	return ra.action, ra.resourceType
}
