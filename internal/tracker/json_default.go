//go:build !sonic

package tracker

import (
	"encoding/json"
)

// for imroc/req
var jsonMarshal = json.Marshal
var jsonUnmarshal = json.Unmarshal
