package host

import (
	"context"
	"time"

	"github.com/simplesurance/descpub/pkg/build"
	"github.com/simplesurance/descpub/pkg/storage"
)

// StorageSink records descriptions in a storage.
type StorageSink struct {
	store storage.Storer
}

// NewStorageSink returns a sink that saves descriptions in store.
func NewStorageSink(store storage.Storer) *StorageSink {
	return &StorageSink{store: store}
}

func (s *StorageSink) Store(ctx context.Context, b *build.Build, desc string) error {
	id, err := s.store.SaveDescription(ctx, &storage.Description{
		ProjectName: b.Project.Name(),
		BuildNumber: b.Number,
		BuildID:     b.ID,
		BuildResult: string(b.Result()),
		Content:     desc,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	b.Console.Printf("description recorded in database, id: %d", id)

	return nil
}

func (s *StorageSink) String() string {
	return "database"
}
