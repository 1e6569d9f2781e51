//go:build !sonic

package drive

import (
	"encoding/json"
)

// for imroc/req
var jsonMarshal = json.Marshal
var jsonUnmarshal = json.Unmarshal
