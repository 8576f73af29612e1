package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/guardianapis/product-switch/internal/config"
	ierr "github.com/guardianapis/product-switch/internal/errors"
)

// Store fetches the product catalog document from object storage.
type Store interface {
	FetchCatalog(ctx context.Context) ([]byte, error)
}

type storeImpl struct {
	client *s3.Client
	cfg    *config.CatalogConfig
}

func NewStore(cfg *config.Configuration) (Store, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.Catalog.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to load aws config").
			Mark(ierr.ErrSystem)
	}

	return &storeImpl{
		client: s3.NewFromConfig(awsCfg),
		cfg:    &cfg.Catalog,
	}, nil
}

func (s *storeImpl) FetchCatalog(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.cfg.Key),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to fetch catalog from object storage").
			WithReportableDetails(map[string]any{
				"bucket": s.cfg.Bucket,
				"key":    s.cfg.Key,
			}).
			Mark(ierr.ErrSystem)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to read catalog object body").
			Mark(ierr.ErrSystem)
	}
	return data, nil
}
