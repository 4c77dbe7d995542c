package logging

import (
	"os"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_WhenDevelopmentEnvironment_ThenReturnsDevelopmentLogger(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("development", "debug")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}

	// Cleanup
	_ = logger.Sync()
}

func TestNewLogger_WhenInvalidLogLevel_ThenDefaultsToInfo(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "invalid-level")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNew_WhenConsoleEncodingInProduction_ThenBuildsLogger(t *testing.T) {
	// Arrange
	opts := Options{Environment: "production", Level: "warn", Encoding: "console", ServiceName: "vitals-agent"}

	// Act
	logger, err := New(opts)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Warn("console encoded", zap.String("resident_id", "CB-001"))
}

func TestNew_WhenUnknownEncoding_ThenFallsBackToEnvironmentDefault(t *testing.T) {
	// Arrange & Act
	logger, err := New(Options{Environment: "development", Encoding: "xml"})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewFromEnv_WhenEnvironmentVariablesSet_ThenUsesThoseValues(t *testing.T) {
	// Arrange
	originalEnvironment := os.Getenv("ENVIRONMENT")
	originalLogLevel := os.Getenv("LOG_LEVEL")
	originalLogEncoding := os.Getenv("LOG_ENCODING")
	defer func() {
		os.Setenv("ENVIRONMENT", originalEnvironment)
		os.Setenv("LOG_LEVEL", originalLogLevel)
		os.Setenv("LOG_ENCODING", originalLogEncoding)
	}()

	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_ENCODING", "json")

	// Act
	logger, err := NewFromEnv("vitals-api")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewFromEnv_WhenNoEnvironmentVariables_ThenUsesDefaults(t *testing.T) {
	// Arrange
	originalEnvironment := os.Getenv("ENVIRONMENT")
	originalLogLevel := os.Getenv("LOG_LEVEL")
	defer func() {
		os.Setenv("ENVIRONMENT", originalEnvironment)
		os.Setenv("LOG_LEVEL", originalLogLevel)
	}()

	os.Unsetenv("ENVIRONMENT")
	os.Unsetenv("LOG_LEVEL")

	// Act
	logger, err := NewFromEnv("")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestZapLogger_With_WhenCalledWithFields_ThenReturnsLoggerWithFields(t *testing.T) {
	// Arrange
	logger, err := NewProductionLogger()
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	// Act
	childLogger := logger.With(zap.String("edge_id", "edge-01"))

	// Assert
	if childLogger == nil {
		t.Fatal("expected child logger to be non-nil")
	}
	childLogger.Info("test message")
}

func TestZap_WhenZapBacked_ThenReturnsUnderlyingLogger(t *testing.T) {
	// Arrange
	logger, err := NewProductionLogger()
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	// Act
	zl := Zap(logger)

	// Assert
	if zl == nil {
		t.Fatal("expected zap logger to be non-nil")
	}
	if zl == zap.L() {
		t.Error("expected the wrapped logger, got the global one")
	}
}

func TestZap_WhenNoOpLogger_ThenReturnsNopLogger(t *testing.T) {
	// Act
	zl := Zap(NewNoOpLogger())

	// Assert
	if zl == nil {
		t.Fatal("expected zap logger to be non-nil")
	}
	zl.Info("discarded")
}

func TestNoOpLogger_AllMethods_WhenCalled_ThenDoNothing(t *testing.T) {
	// Arrange
	logger := NewNoOpLogger()

	// Act & Assert (should not panic)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	if err := logger.Sync(); err != nil {
		t.Errorf("expected no error from Sync, got %v", err)
	}
}

func TestNoOpLogger_With_WhenCalled_ThenReturnsSelf(t *testing.T) {
	// Arrange
	logger := &NoOpLogger{}

	// Act
	childLogger := logger.With(zap.String("key", "value"))

	// Assert
	if childLogger != logger {
		t.Error("expected With to return same logger instance")
	}
}
