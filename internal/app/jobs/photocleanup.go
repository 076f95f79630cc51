package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/blobstore"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultRetentionDays is how long daily status photos are kept.
const DefaultRetentionDays = 14

// DailyStatusStore lists and removes daily status records.
type DailyStatusStore interface {
	ListBefore(ctx context.Context, cutoff string) ([]models.DailyStatus, error)
	Delete(ctx context.Context, id any) error
}

// PhotoCleanup deletes daily status records older than the retention window
// together with their photos.
type PhotoCleanup struct {
	Records       DailyStatusStore
	Blobs         blobstore.Deleter
	RetentionDays int
	Log           *zap.Logger
	Now           func() time.Time
}

// PhotoCleanupResult summarizes one run.
type PhotoCleanupResult struct {
	DeletedPhotos int    `json:"deletedPhotos"`
	DeletedDocs   int    `json:"deletedDocs"`
	CutoffDate    string `json:"cutoffDate"`
	PhotoErrors   int    `json:"photoErrors"`
}

// CutoffDate is the UTC calendar date retentionDays before now.
// Records dated strictly before it are expired.
func CutoffDate(now time.Time, retentionDays int) string {
	return now.UTC().AddDate(0, 0, -retentionDays).Format(DateLayout)
}

// Run performs one cleanup pass. Photo deletion failures are logged and
// counted; a failure to list or delete a record aborts the run.
func (j *PhotoCleanup) Run(ctx context.Context) (PhotoCleanupResult, error) {
	days := j.RetentionDays
	if days <= 0 {
		days = DefaultRetentionDays
	}
	res := PhotoCleanupResult{CutoffDate: CutoffDate(j.now(), days)}

	records, err := j.Records.ListBefore(ctx, res.CutoffDate)
	if err != nil {
		return res, fmt.Errorf("list daily status before %s: %w", res.CutoffDate, err)
	}

	var failures Failures
	for _, rec := range records {
		if rec.Date == "" || rec.Date >= res.CutoffDate {
			continue
		}
		for _, photo := range rec.Photos {
			deleted, err := j.deletePhoto(ctx, photo.URL)
			if err != nil {
				failures.Add(photo.URL, err)
				j.Log.Warn("failed to delete photo", zap.String("url", photo.URL), zap.Error(err))
				continue
			}
			if deleted {
				res.DeletedPhotos++
			}
		}
		if err := j.Records.Delete(ctx, rec.ID); err != nil {
			res.PhotoErrors = failures.Len()
			return res, fmt.Errorf("delete daily status %v: %w", rec.ID, err)
		}
		res.DeletedDocs++
		j.Log.Debug("deleted daily status", zap.Any("id", rec.ID), zap.String("date", rec.Date))
	}

	res.PhotoErrors = failures.Len()
	if err := failures.Err(); err != nil {
		j.Log.Warn("photo cleanup left undeleted photos",
			zap.Int("photo_errors", res.PhotoErrors),
			zap.Error(err))
	}
	j.Log.Info("photo cleanup complete",
		zap.Int("deleted_photos", res.DeletedPhotos),
		zap.Int("deleted_docs", res.DeletedDocs),
		zap.Int("photo_errors", res.PhotoErrors),
		zap.String("cutoff", res.CutoffDate))
	return res, nil
}

// deletePhoto removes the object behind url. URLs without an object path
// reference nothing we own and are skipped.
func (j *PhotoCleanup) deletePhoto(ctx context.Context, url string) (bool, error) {
	path, err := blobstore.ObjectPath(url)
	if errors.Is(err, blobstore.ErrNoObjectPath) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := j.Blobs.Delete(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

func (j *PhotoCleanup) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}
