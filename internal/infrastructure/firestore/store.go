// Package firestore implementa el almacén de documentos sobre Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/customers-api/internal/infrastructure/storage"
	"github.com/jhoicas/customers-api/pkg/config"
)

var _ storage.Store = (*Store)(nil)

// Store adaptador de storage.Store sobre un cliente de Firestore.
type Store struct {
	client *gcfirestore.Client
}

// NewStore envuelve un cliente existente.
func NewStore(client *gcfirestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, collection, id string) (storage.Document, bool, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("firestore get: %w", err)
	}
	if snap == nil || !snap.Exists() {
		return nil, false, nil
	}
	return storage.Document(snap.Data()), true, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, doc storage.Document) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return fmt.Errorf("firestore set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete: %w", err)
	}
	return nil
}

// List devuelve hasta limit documentos en el orden por defecto de Firestore (id del documento).
func (s *Store) List(ctx context.Context, collection string, limit int) ([]storage.Entry, error) {
	iter := s.client.Collection(collection).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var out []storage.Entry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list: %w", err)
		}
		out = append(out, storage.Entry{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// CredentialsFileName nombre del archivo de clave de servicio para el entorno corto (dev, staging, prod).
func CredentialsFileName(envShort string) string {
	return fmt.Sprintf("firebase-admin-key-%s.json", envShort)
}

// Candidates devuelve las fuentes de credenciales en orden de prioridad:
// clave en SECRETS_DIR, clave montada en SECRETS_MOUNT_DIR, GOOGLE_APPLICATION_CREDENTIALS
// y por último las credenciales por defecto de la plataforma.
func Candidates(cfg config.StoreConfig, envShort string) []storage.Candidate {
	name := CredentialsFileName(envShort)
	primary := filepath.Join(cfg.SecretsDir, name)
	mounted := filepath.Join(cfg.SecretsMountDir, name)

	out := []storage.Candidate{
		{Name: "secrets", Path: primary, Open: opener(cfg.GCPProjectID, option.WithCredentialsFile(primary))},
		{Name: "secrets-mount", Path: mounted, Open: opener(cfg.GCPProjectID, option.WithCredentialsFile(mounted))},
	}
	if cfg.CredentialsFile != "" {
		out = append(out, storage.Candidate{
			Name: "google-application-credentials",
			Path: cfg.CredentialsFile,
			Open: opener(cfg.GCPProjectID, option.WithCredentialsFile(cfg.CredentialsFile)),
		})
	}
	return append(out, storage.Candidate{Name: "default-credentials", Open: opener(cfg.GCPProjectID)})
}

func opener(projectID string, opts ...option.ClientOption) storage.OpenFunc {
	return func(ctx context.Context) (storage.Store, error) {
		var fbCfg *firebase.Config
		if projectID != "" {
			fbCfg = &firebase.Config{ProjectID: projectID}
		}
		app, err := firebase.NewApp(ctx, fbCfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("inicializar firebase: %w", err)
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("cliente firestore: %w", err)
		}
		return NewStore(client), nil
	}
}
