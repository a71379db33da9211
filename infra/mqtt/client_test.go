package mqtt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err error
}

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakePaho struct {
	connected    bool
	connectErr   error
	published    []string
	payloads     [][]byte
	subscribed   []string
	disconnected bool
}

func (f *fakePaho) IsConnected() bool { return f.connected }

func (f *fakePaho) Connect() paho.Token {
	if f.connectErr == nil {
		f.connected = true
	}
	return fakeToken{err: f.connectErr}
}

func (f *fakePaho) Disconnect(uint) {
	f.disconnected = true
	f.connected = false
}

func (f *fakePaho) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.published = append(f.published, topic)
	if b, ok := payload.([]byte); ok {
		f.payloads = append(f.payloads, b)
	}
	return fakeToken{}
}

func (f *fakePaho) Subscribe(topic string, _ byte, _ paho.MessageHandler) paho.Token {
	f.subscribed = append(f.subscribed, topic)
	return fakeToken{}
}

func withFakePaho(t *testing.T, f *fakePaho) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return f }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestNewClientPublishSubscribe(t *testing.T) {
	fake := &fakePaho{}
	withFakePaho(t, fake)

	client, err := NewClient(Config{Broker: "tcp://localhost:1883"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Publish("carbon/activity/score", []byte(`{"points":20}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := client.Subscribe("carbon/activity/telemetry", func(paho.Client, paho.Message) {}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	client.Close()

	if len(fake.published) != 1 || fake.published[0] != "carbon/activity/score" {
		t.Fatalf("published topics: %v", fake.published)
	}
	if len(fake.subscribed) != 1 || fake.subscribed[0] != "carbon/activity/telemetry" {
		t.Fatalf("subscribed topics: %v", fake.subscribed)
	}
	if !fake.disconnected {
		t.Fatal("Close must disconnect a connected client")
	}
}

func TestNewClientConnectError(t *testing.T) {
	withFakePaho(t, &fakePaho{connectErr: errors.New("refused")})
	if _, err := NewClient(Config{Broker: "tcp://localhost:1883"}); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.ClientID != "carbon-scoring" {
		t.Fatalf("client id = %q", cfg.ClientID)
	}
	if cfg.TelemetryTopic != "carbon/activity/telemetry" ||
		cfg.EmissionTopic != "carbon/emission/request" ||
		cfg.ReductionTopic != "carbon/reduction/request" {
		t.Fatalf("request topics: %+v", cfg)
	}
	if cfg.ScoreResultTopic != "carbon/activity/score" ||
		cfg.EmissionResultTopic != "carbon/emission/result" ||
		cfg.ReductionResultTopic != "carbon/reduction/result" {
		t.Fatalf("result topics: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty broker must fail validation")
	}
	cfg.Broker = "tcp://localhost:1883"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadTLSConfigMissingFiles(t *testing.T) {
	cfg := Config{UseTLS: true}
	if _, err := cfg.LoadTLSConfig(); err == nil {
		t.Fatal("expected error without cert material")
	}
}

// helper to generate a self-signed cert
func generateCert(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	caFile = filepath.Join(dir, "ca.pem")
	if err := os.WriteFile(certFile, certPEM, 0o644); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if err := os.WriteFile(caFile, certPEM, 0o644); err != nil {
		t.Fatalf("write ca: %v", err)
	}
	return
}

func TestLoadTLSConfig(t *testing.T) {
	certFile, keyFile, caFile := generateCert(t)
	cfg := Config{UseTLS: true, ClientCert: certFile, ClientKey: keyFile, CABundle: caFile}
	tlsCfg, err := cfg.LoadTLSConfig()
	if err != nil {
		t.Fatalf("LoadTLSConfig: %v", err)
	}
	if len(tlsCfg.Certificates) != 1 || tlsCfg.RootCAs == nil {
		t.Fatalf("incomplete tls config: %+v", tlsCfg)
	}
}
