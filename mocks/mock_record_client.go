package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docbridge/internal/port"
)

// MockRecordClient is a mock implementation of port.RecordClient.
type MockRecordClient struct {
	mock.Mock
}

func (m *MockRecordClient) CreateContract(ctx context.Context, fields map[string]any) (*port.CreatedRecord, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CreatedRecord), args.Error(1)
}

func (m *MockRecordClient) AttachDocument(ctx context.Context, filePath string, itemID int, itemType string) error {
	args := m.Called(ctx, filePath, itemID, itemType)
	return args.Error(0)
}

func (m *MockRecordClient) Close(ctx context.Context) {
	m.Called(ctx)
}

// MockRecordClientFactory is a mock implementation of port.RecordClientFactory.
type MockRecordClientFactory struct {
	mock.Mock
}

func (m *MockRecordClientFactory) NewClient() port.RecordClient {
	args := m.Called()
	return args.Get(0).(port.RecordClient)
}
