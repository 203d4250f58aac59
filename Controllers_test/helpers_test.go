package Controllers_test

import (
	"encoding/json"
	"net/http/httptest"
)

func decodeBody(w *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
