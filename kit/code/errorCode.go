package code

import (
	"encoding/json"
	"fmt"
	httpPKG "net/http"
)

type errorCode struct {
	HTTPCode    int    `json:"http_code"`
	Code        int    `json:"code"`
	Message     string `json:"message"`
	OriginError error  `json:"-"`
	CallStack   string `json:"-"`
}

const (
	Default      = 0
	RateLimit    = 1
	InvalidBody  = 2
	InvalidURL   = 3
	LinkInactive = 4
)

var errorCodes = map[int]map[int]string{
	httpPKG.StatusTooManyRequests: {
		Default:   "too many requests",
		RateLimit: "rate limit error. expiry: %d",
	},
	httpPKG.StatusNotFound: {
		Default: "not found",
	},
	httpPKG.StatusGone: {
		Default:      "gone",
		LinkInactive: "link inactive",
	},
	httpPKG.StatusInternalServerError: {
		Default: "internal error",
	},
	httpPKG.StatusBadRequest: {
		Default:     "bad request",
		InvalidBody: "invalid body",
		InvalidURL:  "invalid url. must be absolute http or https",
	},
	httpPKG.StatusUnauthorized: {
		Default: "unauthorized",
	},
}

func CreateErrorCode(httpCode int) *errorCode {
	message := errorCodes[httpPKG.StatusInternalServerError][Default]
	if httpErrorCodes, ok := errorCodes[httpCode]; ok {
		message = httpErrorCodes[Default]
	} else {
		httpCode = httpPKG.StatusInternalServerError
	}
	return &errorCode{
		HTTPCode: httpCode,
		Code:     Default,
		Message:  message,
	}
}

func (e errorCode) Error() string {
	errorStr, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	return string(errorStr)
}

func (e *errorCode) AddCode(code int, args ...any) *errorCode {
	if httpErrorCodes, ok := errorCodes[e.HTTPCode]; ok {
		if message, ok := httpErrorCodes[code]; ok {
			e.Code = code
			e.Message = fmt.Sprintf(message, args...)
		}
	}
	return e
}

func (e *errorCode) AddErrorMetaData(err error) *errorCode {
	e.OriginError = err
	e.CallStack = fmt.Sprintf("%+v", err)
	return e
}

// ParseErrorCode recovers an error code from an error value. Errors that
// did not originate from this package become an internal error with the
// origin attached.
func ParseErrorCode(err error) *errorCode {
	if errorCode, ok := err.(*errorCode); ok {
		return errorCode
	}
	parsedErrorCode := new(errorCode)
	if jsonErr := json.Unmarshal([]byte(err.Error()), parsedErrorCode); jsonErr != nil || parsedErrorCode.HTTPCode == 0 {
		return CreateErrorCode(httpPKG.StatusInternalServerError).AddErrorMetaData(err)
	}
	return parsedErrorCode
}
