package config

import "time"

type (
	// ClientConfig is read by techminectl
	ClientConfig struct {
		Server      string            `yaml:"server"` // base URL of the apiserver
		Timeout     time.Duration     `yaml:"timeout"`
		SessionFile string            `yaml:"session_file"`
		Identity    IdentityConfig    `yaml:"identity"`
		ObjectStore ObjectStoreConfig `yaml:"object_store"`
	}

	// IdentityConfig points at the external identity provider token endpoint
	IdentityConfig struct {
		TokenURL     string            `yaml:"token_url"`
		ClientID     string            `yaml:"client_id"`
		ClientSecret string            `yaml:"client_secret"`
		Scopes       []string          `yaml:"scopes"`
		Headers      map[string]string `yaml:"headers"` // extra headers, e.g. an api key
	}

	// ObjectStoreConfig selects where attachment binaries are uploaded
	ObjectStoreConfig struct {
		Type      string `yaml:"type"` // minio or s3
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		UseSSL    bool   `yaml:"use_ssl"`
		PublicURL string `yaml:"public_url"` // base URL recorded as fileUrl
	}
)

func (c *ClientConfig) setDefaults() {
	if c.Server == "" {
		c.Server = "http://localhost:5234"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.ObjectStore.Type == "" {
		c.ObjectStore.Type = "minio"
	}
}

// DefaultClientConfig is used by techminectl when no config file is found
func DefaultClientConfig() *ClientConfig {
	c := &ClientConfig{}
	c.setDefaults()
	return c
}
