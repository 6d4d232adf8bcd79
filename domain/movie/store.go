package movie

import "context"

// Store provides read access to the movie corpus. Records are returned in a
// stable insertion order (ascending corpus id) so that downstream consumers
// can rely on deterministic ordering.
type Store interface {
	// All returns every corpus record in insertion order.
	All(ctx context.Context) ([]Record, error)

	// ByIDs returns the records for the given ids, in the order requested.
	// Missing ids are skipped.
	ByIDs(ctx context.Context, ids []int64) ([]Record, error)

	// Count returns the corpus size.
	Count(ctx context.Context) (int64, error)

	// Fingerprint returns a stable digest over the ordered corpus ids. It
	// changes whenever records are added, removed or reordered.
	Fingerprint(ctx context.Context) (string, error)
}
