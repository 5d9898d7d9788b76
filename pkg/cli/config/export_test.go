package config

import "time"

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, apiURL string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
		apiURL:    apiURL,
	}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewVectorizerForTest creates a Vectorizer config for testing purposes
func NewVectorizerForTest(configPath, fitPolicy, searchScope string, similarLimit int, reindexInterval time.Duration) *Vectorizer {
	return &Vectorizer{
		configPath:      configPath,
		fitPolicy:       fitPolicy,
		searchScope:     searchScope,
		similarLimit:    similarLimit,
		reindexInterval: reindexInterval,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

// NewStorageForTest creates a Storage config for testing purposes
func NewStorageForTest(bucket, prefix string) *Storage {
	return &Storage{
		bucket: bucket,
		prefix: prefix,
	}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(jwtSecret string) *Auth {
	return &Auth{jwtSecret: jwtSecret}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}
