package launcher

import (
	"context"
	"path/filepath"

	"github.com/pgentry/pgentry/internal/fileutil"
)

// fixOwnership reassigns the shared log directory to the restricted
// identity so the dropped-privilege process can write its logs. The step
// is skipped silently when the directory is absent (deployments without a
// log volume are legal) and disabled entirely when no LogDir is
// configured. It must run before the privilege drop: re-owning a
// root-owned volume needs exactly the privileges the launch is about to
// give up.
func (d *Dispatcher) fixOwnership(ctx context.Context, id Identity) error {
	dir := d.config.LogDir
	if dir == "" {
		return nil
	}
	log := d.logger()

	ok, err := fileutil.Exists(dir)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("(Entrypoint) Log directory absent, skipping ownership fix-up", "dir", dir)
		return nil
	}

	// Sibling containers start against the same volume; serialize so two
	// recursive walks do not interleave.
	fl, err := acquireFileLock(ctx, filepath.Join(dir, ownershipLockName))
	if err != nil {
		return err
	}
	defer releaseFileLock(log, fl)

	log.Info("(Entrypoint) Fixing log directory ownership",
		"dir", dir, "owner", id.User+":"+id.Group)
	return fileutil.ChownTree(dir, id.UID, id.GID, d.chown)
}
