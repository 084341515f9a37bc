package common

import (
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"
)

var idNode *snowflake.Node

func init() {
	nodeID := cast.ToInt64(os.Getenv("COFFEEHUB_NODE_ID"))
	if nodeID < 0 || nodeID > 1023 {
		nodeID = 0
	}
	var err error
	idNode, err = snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return idNode.Generate().Int64()
}

// Int64String formats an id for URLs and string-typed JSON fields.
func Int64String(v int64) string {
	return cast.ToString(v)
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the bcrypt hash.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
