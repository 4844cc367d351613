package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/openatlas/openatlas/internal/flagx"
	"github.com/openatlas/openatlas/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	RedisAddr                   string         `json:"redis_addr"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`

	SpamThreshold int `json:"spam_threshold"`

	MaxMessagesPerHour                int `json:"max_messages_per_hour"`
	MaxFollowsPerHour                 int `json:"max_follows_per_hour"`
	MinChangesetCommentsPerHour       int `json:"min_changeset_comments_per_hour"`
	InitialChangesetCommentsPerHour   int `json:"initial_changeset_comments_per_hour"`
	MaxChangesetCommentsPerHour       int `json:"max_changeset_comments_per_hour"`
	CommentsToMaxChangesetComments    int `json:"comments_to_max_changeset_comments"`
	ModeratorChangesetCommentsPerHour int `json:"moderator_changeset_comments_per_hour"`

	AccountDeletionDelay timex.Duration `json:"account_deletion_delay"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no flag is given, nothing
// is loaded. An unreadable or invalid file panics: a broken config file is a
// deployment error, not a runtime-recoverable condition.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RedisAddr = c.RedisAddr
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.SpamThreshold = c.SpamThreshold
	config.MaxMessagesPerHour = c.MaxMessagesPerHour
	config.MaxFollowsPerHour = c.MaxFollowsPerHour
	config.MinChangesetCommentsPerHour = c.MinChangesetCommentsPerHour
	config.InitialChangesetCommentsPerHour = c.InitialChangesetCommentsPerHour
	config.MaxChangesetCommentsPerHour = c.MaxChangesetCommentsPerHour
	config.CommentsToMaxChangesetComments = c.CommentsToMaxChangesetComments
	config.ModeratorChangesetCommentsPerHour = c.ModeratorChangesetCommentsPerHour
	config.AccountDeletionDelay = time.Duration(c.AccountDeletionDelay.Duration)
}
