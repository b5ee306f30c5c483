package constants

import (
	"fmt"
	"time"
)

// Redis keys used by branchdesk
// Pattern: branchdesk:{module}:{kind}:{identifier}

const (
	CACHE_PREFIX = "branchdesk"
)

// ================== LOAN WIZARD ==================

const (
	CACHE_KEY_LOAN_SESSION = CACHE_PREFIX + ":loans:session:" // + session-id
)

// TTL_LOAN_SESSION is the fallback when no session TTL is configured
const (
	TTL_LOAN_SESSION = 30 * time.Minute
)

// ================== HELPER FUNCTIONS ==================

// BuildLoanSessionKey builds the snapshot key for a wizard session
func BuildLoanSessionKey(sessionID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_LOAN_SESSION, sessionID)
}
