package dto

import (
	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/domain"
)

// CleanupResponse is returned by a manual cleanup.
type CleanupResponse struct {
	Message string               `json:"message"`
	Result  domain.CleanupResult `json:"result"`
}

// LogsResponse pages the audit log.
type LogsResponse struct {
	Logs  []auditlog.Entry `json:"logs"`
	Total int              `json:"total"`
}
