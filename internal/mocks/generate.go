// Package mocks provides mock implementations for testing the nestlink session API.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockTransferTokenRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(token, nil)
package mocks

// Generate mock for TransferTokenRepository interface from internal/ports package.
// This creates MockTransferTokenRepository with methods for all TransferTokenRepository interface methods:
// Create, Consume, DeleteStale
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=transfer_token_repository_mock.go github.com/nestlink/nestlink-api/internal/ports TransferTokenRepository

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods for all SessionStore interface methods:
// Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/nestlink/nestlink-api/internal/ports SessionStore
