package common

import (
	"crypto/sha256"
	"fmt"
	"math/rand"
	"os"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(int64(rand.Intn(1023) + 1))
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// Sha256Hash returns the hex encoded sha256 of src.
func Sha256Hash(src string) string {
	h := sha256.New()
	h.Write([]byte(src))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Sha256HashWithSalt hashes src together with salt.
func Sha256HashWithSalt(src, salt string) string {
	return Sha256Hash(src + salt)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
