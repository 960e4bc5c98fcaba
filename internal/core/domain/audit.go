package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister      AuditAction = "REGISTER"
	AuditActionLogin         AuditAction = "LOGIN"
	AuditActionLogout        AuditAction = "LOGOUT"
	AuditActionWalletCreate  AuditAction = "WALLET_CREATE"
	AuditActionWalletUpdate  AuditAction = "WALLET_UPDATE"
	AuditActionWalletDelete  AuditAction = "WALLET_DELETE"
	AuditActionAssignGoal    AuditAction = "ASSIGN_GOAL"
	AuditActionAssignExpense AuditAction = "ASSIGN_EXPENSE"
	AuditActionGoalCreate    AuditAction = "GOAL_CREATE"
	AuditActionGoalUpdate    AuditAction = "GOAL_UPDATE"
	AuditActionGoalDelete    AuditAction = "GOAL_DELETE"
	AuditActionExpenseCreate AuditAction = "EXPENSE_CREATE"
	AuditActionExpenseUpdate AuditAction = "EXPENSE_UPDATE"
	AuditActionExpenseDelete AuditAction = "EXPENSE_DELETE"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *int64      `json:"user_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
