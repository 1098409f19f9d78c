package helper

import (
	"fmt"

	"github.com/songquanpeng/echobin/common/random"
)

const RequestIdKey = "X-Request-Id"

func GenRequestID() string {
	return GetTimeString() + random.GetRandomNumberString(8)
}

func MessageWithRequestId(message string, id string) string {
	return fmt.Sprintf("%s (request id: %s)", message, id)
}
