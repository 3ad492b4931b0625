package services

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/amine-amaach/simulators/uanodegen/addrspace"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	pkiDir      = "./uaServerCerts/pki"
	appName     = "UaNodeGenServer"
	bcryptCost  = 8
	productURI  = "http://github.com/awcullen/opcua"
	certFile    = pkiDir + "/server.crt"
	keyFile     = pkiDir + "/server.key"
	certTTLDays = 365
)

// UaSrvService hosts a generated address space in an OPC UA server.
type UaSrvService struct {
	server *server.Server
	logger *zap.SugaredLogger
}

func (uaServer *UaSrvService) GetServer() *server.Server {
	return uaServer.server
}

func NewUaSrvService(logger *zap.SugaredLogger, fs afero.Fs, cfg *utils.Config) (*UaSrvService, error) {
	if err := ensurePKI(fs, cfg.ServerHost, cfg.AdditionalHosts); err != nil {
		return nil, errors.Wrap(err, "creating server certificate")
	}
	users := hashPasswords(cfg.UserIds)
	endpointURL := fmt.Sprintf("opc.tcp://%s:%d", cfg.ServerHost, cfg.ServerPort)
	srv, err := server.New(
		ua.ApplicationDescription{
			ApplicationURI: fmt.Sprintf("urn:%s:%s", cfg.ServerHost, appName),
			ProductURI:     productURI,
			ApplicationName: ua.LocalizedText{
				Text:   fmt.Sprintf("%s@%s", appName, cfg.ServerHost),
				Locale: "en",
			},
			ApplicationType: ua.ApplicationTypeServer,
			DiscoveryURLs:   []string{endpointURL},
		},
		certFile,
		keyFile,
		endpointURL,
		server.WithBuildInfo(
			ua.BuildInfo{
				ProductURI:       productURI,
				ManufacturerName: "amine-amaach",
				ProductName:      appName,
				SoftwareVersion:  "latest",
			}),
		server.WithAnonymousIdentity(true),
		server.WithAuthenticateUserNameIdentityFunc(func(userIdentity ua.UserNameIdentity, applicationURI string, endpointURL string) error {
			if !authenticate(users, userIdentity) {
				return ua.BadUserAccessDenied
			}
			logger.Debugf("Login user: %s from %s", userIdentity.UserName, applicationURI)
			return nil
		}),
		server.WithSecurityPolicyNone(true),
		server.WithInsecureSkipVerify(),
		server.WithServerDiagnostics(true),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating server")
	}
	return &UaSrvService{server: srv, logger: logger}, nil
}

// AddressSpace returns the NodeManager generated code populates the server through.
func (uaServer *UaSrvService) AddressSpace(reg prometheus.Registerer) addrspace.NodeManager {
	return addrspace.NewServerNodeManager(uaServer.server, reg)
}

// ListenAndServe serves until Close is called.
func (uaServer *UaSrvService) ListenAndServe() error {
	desc := utils.Colorize(uaServer.server.LocalDescription().ApplicationName.Text, utils.Magenta)
	endpoint := utils.Colorize(uaServer.server.EndpointURL(), utils.Cyan)
	uaServer.logger.Infof("%s '%s' at '%s'", utils.Colorize("Starting server", utils.Cyan), desc, endpoint)
	if err := uaServer.server.ListenAndServe(); err != ua.BadServerHalted {
		return errors.Wrap(err, "Error starting server")
	}
	return nil
}

func (uaServer *UaSrvService) Close() error {
	return uaServer.server.Close()
}

func hashPasswords(userIds []utils.UserID) []ua.UserNameIdentity {
	users := make([]ua.UserNameIdentity, 0, len(userIds))
	for _, u := range userIds {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			continue
		}
		users = append(users, ua.UserNameIdentity{UserName: u.Username, Password: string(hash)})
	}
	return users
}

func authenticate(users []ua.UserNameIdentity, identity ua.UserNameIdentity) bool {
	for _, user := range users {
		if user.UserName != identity.UserName {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(identity.Password)) == nil {
			return true
		}
	}
	return false
}

func ensurePKI(fs afero.Fs, host string, additionalHosts []string) error {
	if ok, _ := afero.Exists(fs, certFile); ok {
		return nil
	}
	if err := fs.MkdirAll(pkiDir, os.ModeDir|0755); err != nil {
		return err
	}
	return createNewCertificate(fs, host, additionalHosts)
}

func createNewCertificate(fs afero.Fs, host string, additionalHosts []string) error {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return ua.BadCertificateInvalid
	}

	hosts := append([]string{host}, additionalHosts...)
	uris := make([]*url.URL, 0, len(hosts))
	dnsNames := make([]string, 0, len(hosts))
	ipAddresses := []net.IP{}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			ipAddresses = append(ipAddresses, ip)
		} else {
			dnsNames = append(dnsNames, h)
		}
		if u, err := url.Parse(fmt.Sprintf("urn:%s:%s", h, appName)); err == nil {
			uris = append(uris, u)
		}
	}

	serialNumber, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	subjectKeyHash := sha1.New()
	subjectKeyHash.Write(key.PublicKey.N.Bytes())
	subjectKeyID := subjectKeyHash.Sum(nil)

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: appName},
		SubjectKeyId:          subjectKeyID,
		AuthorityKeyId:        subjectKeyID,
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(0, 0, certTTLDays),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment | x509.KeyUsageKeyEncipherment | x509.KeyUsageDataEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		DNSNames:              dnsNames,
		IPAddresses:           ipAddresses,
		URIs:                  uris,
	}

	rawcrt, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return ua.BadCertificateInvalid
	}
	if err := writePEM(fs, certFile, &pem.Block{Type: "CERTIFICATE", Bytes: rawcrt}); err != nil {
		return err
	}
	return writePEM(fs, keyFile, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func writePEM(fs afero.Fs, path string, block *pem.Block) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := pem.Encode(f, block); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
