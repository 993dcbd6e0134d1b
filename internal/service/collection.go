package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledeuns/davical-cmdlnut/internal/buildinfo"
	"github.com/ledeuns/davical-cmdlnut/internal/ical"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
	"github.com/ledeuns/davical-cmdlnut/internal/storage"
)

// ExportURLExpiry is how long a presigned export URL stays valid.
const ExportURLExpiry = 24 * time.Hour

// CollectionOptions are the optional properties of a new collection.
type CollectionOptions struct {
	DisplayName string
	Description string
}

// ExportResult describes a written export.
type ExportResult struct {
	Collection model.Collection   `json:"collection" yaml:"collection"`
	Objects    int                `json:"objects" yaml:"objects"`
	Object     storage.ObjectInfo `json:"object" yaml:"object"`
	// URL is a presigned download link, empty when the sink has none.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// CollectionService covers calendar and addressbook administration.
type CollectionService interface {
	AddCalendar(ctx context.Context, username, name string, opts CollectionOptions) (*model.Collection, error)
	AddAddressbook(ctx context.Context, username, name string, opts CollectionOptions) (*model.Collection, error)
	List(ctx context.Context, username string) ([]model.Collection, error)
	Get(ctx context.Context, username, name string) (*model.Collection, error)

	// Delete removes the collection and everything stored in it.
	Delete(ctx context.Context, username, name string) error

	// Export writes the collection as a single iCalendar or vCard file
	// named "<username>-<name>.ics" (or .vcf) into store.
	Export(ctx context.Context, username, name string, store storage.Storage) (*ExportResult, error)
}

type collectionService struct {
	users       repository.UserRepository
	collections repository.CollectionRepository
}

// NewCollectionService constructs a new CollectionService.
func NewCollectionService(users repository.UserRepository, collections repository.CollectionRepository) CollectionService {
	return &collectionService{users: users, collections: collections}
}

func (s *collectionService) AddCalendar(ctx context.Context, username, name string, opts CollectionOptions) (*model.Collection, error) {
	return s.add(ctx, username, name, model.KindCalendar, opts)
}

func (s *collectionService) AddAddressbook(ctx context.Context, username, name string, opts CollectionOptions) (*model.Collection, error) {
	return s.add(ctx, username, name, model.KindAddressbook, opts)
}

func (s *collectionService) add(ctx context.Context, username, name string, kind model.CollectionKind, opts CollectionOptions) (*model.Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	path := model.CollectionPath(u.Username, name)
	_, err = s.collections.FindByPath(ctx, path)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrCollectionExists, path)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	display := opts.DisplayName
	if display == "" {
		display = name
	}
	c, err := s.collections.Create(ctx, &model.Collection{
		UserNo:          u.UserNo,
		Path:            path,
		ParentContainer: model.UserPath(u.Username),
		DisplayName:     display,
		Description:     opts.Description,
		Kind:            kind,
	})
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return c, nil
}

func (s *collectionService) List(ctx context.Context, username string) ([]model.Collection, error) {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	return s.collections.ListByUser(ctx, u.UserNo)
}

func (s *collectionService) Get(ctx context.Context, username, name string) (*model.Collection, error) {
	u, err := findUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	return findCollection(ctx, s.collections, u, name)
}

func (s *collectionService) Delete(ctx context.Context, username, name string) error {
	c, err := s.Get(ctx, username, name)
	if err != nil {
		return err
	}
	if err := s.collections.Delete(ctx, c.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrCollectionNotFound, c.Path)
		}
		return err
	}
	return nil
}

func (s *collectionService) Export(ctx context.Context, username, name string, store storage.Storage) (*ExportResult, error) {
	c, err := s.Get(ctx, username, name)
	if err != nil {
		return nil, err
	}

	var ext, contentType string
	switch c.Kind {
	case model.KindCalendar:
		ext, contentType = ".ics", "text/calendar; charset=utf-8"
	case model.KindAddressbook:
		ext, contentType = ".vcf", "text/vcard; charset=utf-8"
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotExportable, c.Path)
	}

	objs, err := s.collections.Objects(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("read collection objects: %w", err)
	}
	texts := make([]string, 0, len(objs))
	for _, o := range objs {
		texts = append(texts, o.Data)
	}
	var body string
	if c.Kind == model.KindCalendar {
		body = ical.MergeCalendars(buildinfo.ProdID(), texts)
	} else {
		body = ical.ConcatCards(texts)
	}

	key := username + "-" + name + ext
	info, err := store.Put(ctx, key, strings.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: contentType,
		Metadata: map[string]string{
			"dav-name": c.Path,
			"objects":  strconv.Itoa(len(objs)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	res := &ExportResult{Collection: *c, Objects: len(objs), Object: info}
	url, err := store.PresignGet(ctx, key, ExportURLExpiry)
	switch {
	case err == nil:
		res.URL = url
	case !errors.Is(err, storage.ErrPresignUnsupported):
		return nil, fmt.Errorf("presign export: %w", err)
	}
	return res, nil
}
