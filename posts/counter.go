package posts

import (
	"log"
	"sync"
)

// ViewCounter records qualifying reads of published posts without blocking
// the response that triggered them. Bump returns immediately; the increment
// runs in its own goroutine and a failed increment is logged and dropped,
// never surfaced to the reader. Responses report the stored value plus one,
// so the caller still reads its own write.
type ViewCounter struct {
	store *Store
	wg    sync.WaitGroup
}

func NewViewCounter(store *Store) *ViewCounter {
	return &ViewCounter{store: store}
}

// Bump schedules a view increment for the post. Fire and forget.
func (v *ViewCounter) Bump(id uint) {
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		if err := v.store.IncrementViews(id); err != nil {
			log.Printf("view increment dropped for post %d: %v", id, err)
		}
	}()
}

// Wait blocks until every scheduled increment has finished. Tests use it to
// observe the counter deterministically; request handlers never call it.
func (v *ViewCounter) Wait() {
	v.wg.Wait()
}
