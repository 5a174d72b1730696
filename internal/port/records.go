package port

import "context"

// CreatedRecord describes a record created on the remote ITSM system.
type CreatedRecord struct {
	ID   int
	Name string
}

// RecordClient talks to the external ITSM system's REST API. The session
// token is acquired lazily on the first call; Close invalidates it and
// must always run when the owning scope exits.
type RecordClient interface {
	CreateContract(ctx context.Context, fields map[string]any) (*CreatedRecord, error)
	AttachDocument(ctx context.Context, filePath string, itemID int, itemType string) error
	Close(ctx context.Context)
}

// RecordClientFactory builds a fresh client per batch run so concurrent
// runs never share a session.
type RecordClientFactory interface {
	NewClient() RecordClient
}
