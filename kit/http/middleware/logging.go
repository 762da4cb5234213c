package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"

	"github.com/yorklin/linkly/kit/code"
	httpKit "github.com/yorklin/linkly/kit/http"
	loggerKit "github.com/yorklin/linkly/kit/logger"
)

func CreateLoggingMiddleware(logger *loggerKit.Logger) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				url := httpKit.GetURL(ctx)

				var (
					errorMsg       string
					errorCallStack string
					errorHTTPCode  int
				)
				if err != nil {
					errorCode := code.ParseErrorCode(err)
					errorHTTPCode = errorCode.HTTPCode
					errorMsg = errorCode.Message
					errorCallStack = fmt.Sprintf("%+v", err)
				}
				loggerWithMetadata := logger.With(
					loggerKit.Int("status", errorHTTPCode),
					loggerKit.String("error", errorMsg),
					loggerKit.String("error-call-stack", errorCallStack),
					loggerKit.String("path", url),
					loggerKit.String("ip", httpKit.GetIP(ctx)),
					loggerKit.Int64("request-id", httpKit.GetRequestID(ctx)),
					loggerKit.Duration("latency", time.Since(begin)),
				)

				if errorHTTPCode == http.StatusInternalServerError {
					loggerWithMetadata.Error(url)
				} else {
					loggerWithMetadata.Info(url)
				}
			}(time.Now())

			res, err := e(ctx, request)

			return res, err
		}
	}
}
