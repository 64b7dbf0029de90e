package launcher

import (
	"fmt"
	"os/user"
	"strconv"

	"github.com/pgentry/pgentry/internal/sentinel"
)

// RunAsUser and RunAsGroup name the restricted identity the target process
// runs under. Fixed by the image contract: the Dockerfile creates this pair,
// and nothing configures it at runtime.
const (
	RunAsUser  = "appuser"
	RunAsGroup = "appgroup"
)

// ErrUnknownIdentity is returned when the runtime identity cannot be
// resolved against the system user database.
const ErrUnknownIdentity = sentinel.Error("runtime identity is unknown")

// Identity is a resolved (user, group) pair.
type Identity struct {
	User  string
	Group string
	UID   int
	GID   int
}

// lookupRunIdentity resolves the fixed restricted identity.
func lookupRunIdentity() (Identity, error) {
	return lookupIdentity(RunAsUser, RunAsGroup)
}

func lookupIdentity(userName, groupName string) (Identity, error) {
	u, err := user.Lookup(userName)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: user %s: %v", ErrUnknownIdentity, userName, err)
	}
	g, err := user.LookupGroup(groupName)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: group %s: %v", ErrUnknownIdentity, groupName, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: non-numeric uid %q for user %s", ErrUnknownIdentity, u.Uid, userName)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: non-numeric gid %q for group %s", ErrUnknownIdentity, g.Gid, groupName)
	}

	return Identity{User: userName, Group: groupName, UID: uid, GID: gid}, nil
}
