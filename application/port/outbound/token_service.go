package outbound

import (
	"github.com/velora/auth-service/domain/entity"
)

// TokenService signs and verifies the two token kinds. Access and refresh
// tokens use separate signing keys so a leaked key of one kind cannot mint
// the other. Signing and verification are pure, no I/O.
type TokenService interface {
	IssueAccess(account *entity.Account) (string, error)
	IssueRefresh(account *entity.Account) (string, error)
	VerifyAccess(token string) (*entity.Claims, error)
	VerifyRefresh(token string) (*entity.Claims, error)
}
