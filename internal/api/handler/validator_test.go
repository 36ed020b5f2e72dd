package handler

import (
	"strings"
	"testing"
)

func TestValidator_RegisterRequest(t *testing.T) {
	v := NewValidator()

	ok := registerRequest{Username: "alice", Email: "alice@x.com", Password: "pw123", Tipo: "server"}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := map[string]struct {
		req  registerRequest
		want string
	}{
		"missing username": {registerRequest{Email: "a@x.com", Password: "pw", Tipo: "client"}, "username is required"},
		"bad email":        {registerRequest{Username: "a", Email: "nope", Password: "pw", Tipo: "client"}, "email must be a valid email"},
		"bad role":         {registerRequest{Username: "a", Email: "a@x.com", Password: "pw", Tipo: "admin"}, "tipo must be one of: client server"},
		"long username":    {registerRequest{Username: strings.Repeat("a", 51), Email: "a@x.com", Password: "pw", Tipo: "client"}, "username must be at most 50 characters"},
		"long password":    {registerRequest{Username: "a", Email: "a@x.com", Password: strings.Repeat("p", 73), Tipo: "client"}, "password must be at most 72 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(tc.req)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidator_CameraStateRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(cameraStateRequest{}); err == nil || !strings.Contains(err.Error(), "estado is required") {
		t.Fatalf("expected estado to be required, got %v", err)
	}

	off := false
	if err := v.Validate(cameraStateRequest{Estado: &off}); err != nil {
		t.Fatalf("estado=false alone should be valid, got %v", err)
	}

	on := true
	if err := v.Validate(cameraStateRequest{Estado: &on, IP: "10.0.0.5", Puerto: "123456"}); err == nil {
		t.Fatalf("expected puerto length error")
	}
}
