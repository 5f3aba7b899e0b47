package common

import "fmt"

func RedisKeyInteractionNonce(signature string) string {
	return fmt.Sprintf("interactionnonce:%s", signature)
}
