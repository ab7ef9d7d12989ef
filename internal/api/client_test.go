package api

import "testing"

func TestDecodeListShapes(t *testing.T) {
	bare := []byte(`[{"id":1,"name":"Shopping"},{"id":2,"name":"Food & Dining"}]`)
	paged := []byte(`{"count":2,"next":null,"results":[{"id":1,"name":"Shopping"},{"id":2,"name":"Food & Dining"}]}`)

	for _, data := range [][]byte{bare, paged} {
		got, err := decodeList[CategoryRecord](data)
		if err != nil {
			t.Fatalf("decodeList(%s): %v", data, err)
		}
		if len(got) != 2 || got[0].Name != "Shopping" {
			t.Fatalf("decodeList(%s) = %+v", data, got)
		}
	}

	if got, err := decodeList[CategoryRecord](nil); err != nil || len(got) != 0 {
		t.Fatalf("empty body should decode to empty list, got %v, %v", got, err)
	}

	for _, bad := range []string{`{"items":[]}`, `"oops"`, `42`} {
		if _, err := decodeList[CategoryRecord]([]byte(bad)); err == nil {
			t.Fatalf("decodeList(%s) expected error", bad)
		}
	}
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	err := newAPIError(500, []byte(`<html>internal error</html>`))
	if err.Message != "" {
		t.Fatalf("non-JSON body must not produce a message, got %q", err.Message)
	}
	if err.Error() == "" {
		t.Fatal("Error() must always render something")
	}
	if !IsNotFound(newAPIError(404, nil)) {
		t.Fatal("IsNotFound(404) = false")
	}
	if IsNotFound(newAPIError(500, nil)) {
		t.Fatal("IsNotFound(500) = true")
	}
}
