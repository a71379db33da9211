package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker               string      `json:"broker"`
	ClientID             string      `json:"client_id"`
	Username             string      `json:"username"`
	Password             string      `json:"password"`
	TelemetryTopic       string      `json:"telemetry_topic"`
	EmissionTopic        string      `json:"emission_topic"`
	ReductionTopic       string      `json:"reduction_topic"`
	ScoreResultTopic     string      `json:"score_result_topic"`
	EmissionResultTopic  string      `json:"emission_result_topic"`
	ReductionResultTopic string      `json:"reduction_result_topic"`
	UseTLS               bool        `json:"use_tls"`
	ClientCert           string      `json:"client_cert"`
	ClientKey            string      `json:"client_key"`
	CABundle             string      `json:"ca_bundle"`
	QoS                  byte        `json:"qos"`
	TLSConfig            *tls.Config `json:"-"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "carbon-scoring"
	}
	if c.TelemetryTopic == "" {
		c.TelemetryTopic = "carbon/activity/telemetry"
	}
	if c.EmissionTopic == "" {
		c.EmissionTopic = "carbon/emission/request"
	}
	if c.ReductionTopic == "" {
		c.ReductionTopic = "carbon/reduction/request"
	}
	if c.EmissionResultTopic == "" {
		c.EmissionResultTopic = "carbon/emission/result"
	}
	if c.ScoreResultTopic == "" {
		c.ScoreResultTopic = "carbon/activity/score"
	}
	if c.ReductionResultTopic == "" {
		c.ReductionResultTopic = "carbon/reduction/result"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	return nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// pahoClient is the subset of the Paho API the wrapper uses; tests swap in
// a fake.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Client wraps the Paho client with the small publish/subscribe surface the
// service needs.
type Client struct {
	cli pahoClient
	qos byte
	log logger.Logger
}

// NewClient connects to the MQTT broker.
func NewClient(cfg Config) (*Client, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_client")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Client{cli: c, qos: cfg.QoS, log: log}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	opts.SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// Publish sends a payload on the topic and waits for completion.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.cli.Publish(topic, c.qos, false, payload)
	token.Wait()
	return token.Error()
}

// Subscribe registers a message handler on the topic.
func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	token := c.cli.Subscribe(topic, c.qos, handler)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}
