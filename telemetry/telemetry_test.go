package telemetry

import (
	"context"
	"testing"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), "rdb-app-sheets", " ")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("Unexpected shutdown error (%v)", err)
	}
}

func TestSetupWithEndpoint(t *testing.T) {
	// Non-routable address so nothing is actually exported.
	shutdown, err := Setup(context.Background(), "rdb-app-sheets", "http://192.0.2.1:4318")
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("Unexpected shutdown error (%v)", err)
	}
}
