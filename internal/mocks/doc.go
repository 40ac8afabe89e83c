// Package mocks provides centralized mock implementations for testing.
//
// Most mocks are structs with function fields for each interface method,
// falling back to canned values when a field is nil:
//
//	import "github.com/phrazzld/tasks-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    jwtService := &mocks.MockJWTService{
//	        GenerateTokenFn: func(ctx context.Context, userID uuid.UUID, email string) (string, error) {
//	            return "mocked-token", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// TestifyMockTaskStore is built on testify/mock for tests that assert on call
// arguments and ordering.
package mocks
