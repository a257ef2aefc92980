package unitofwork

import (
	"context"

	"gem-curator-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TrackRepository() contract.TrackRepository
	PlaylistRepository() contract.PlaylistRepository
}
