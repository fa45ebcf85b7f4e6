package email

import (
	"context"
)

// Service sends transactional mail. Failures are opaque to callers and
// never abort the surrounding workflow.
type Service interface {
	SendAccountRecovery(ctx context.Context, to, name string) error
	SendWelcome(ctx context.Context, to, name string) error
}
