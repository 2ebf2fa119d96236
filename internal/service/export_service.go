package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/repository"
	"alcyxob/gym-admin/internal/storage"
)

// --- Error Definitions ---
var (
	ErrArchiveNotFound = errors.New("export archive not found")
	ErrArchiveDisabled = errors.New("export archiving is not configured")
)

const (
	ExportFileName    = "socios.xlsx"
	ExportSheetName   = "Socios"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHeaders are the column titles of the member spreadsheet.
var ExportHeaders = []string{
	"Nombre y Apellido", "DNI", "Gmail", "Teléfono", "Dirección", "Edad",
	"Historial Deportivo", "Experiencias Gimnasios", "Historial Lesivo",
	"Enfermedades", "Objetivos", "Frecuencia Semana",
}

// ArchivedExport is an archive with a temporary download link.
type ArchivedExport struct {
	domain.ExportArchive
	DownloadURL string `json:"downloadUrl"`
}

// ExportService builds the member spreadsheet and keeps archived copies.
type ExportService interface {
	// WriteMembers writes the spreadsheet of all members and returns how many rows it holds.
	WriteMembers(ctx context.Context, w io.Writer) (int, error)
	Archive(ctx context.Context, operatorID primitive.ObjectID) (*ArchivedExport, error)
	ListArchives(ctx context.Context) ([]domain.ExportArchive, error)
	ArchiveURL(ctx context.Context, archiveID primitive.ObjectID) (*ArchivedExport, error)
	DeleteArchive(ctx context.Context, archiveID primitive.ObjectID) error
}

type exportService struct {
	memberRepo  repository.MemberRepository
	archiveRepo repository.ExportArchiveRepository
	files       storage.FileStorage // nil disables archiving
	now         Clock
}

// NewExportService creates a new instance of exportService. files may be nil.
func NewExportService(memberRepo repository.MemberRepository, archiveRepo repository.ExportArchiveRepository, files storage.FileStorage, clock Clock) ExportService {
	return &exportService{
		memberRepo:  memberRepo,
		archiveRepo: archiveRepo,
		files:       files,
		now:         clockOrDefault(clock),
	}
}

func memberRecord(m domain.Member) []interface{} {
	age := ""
	if m.Age != nil {
		age = strconv.Itoa(*m.Age)
	}
	return []interface{}{
		m.FullName, m.DNI, m.Email, m.Phone, m.Address, age,
		m.SportHistory, m.GymExperience, m.InjuryHistory,
		m.Illnesses, m.Goals, m.WeeklyFrequency,
	}
}

func (s *exportService) WriteMembers(ctx context.Context, w io.Writer) (int, error) {
	members, err := s.memberRepo.List(ctx, "")
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()
	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return 0, err
	}

	sw, err := f.NewStreamWriter(ExportSheetName)
	if err != nil {
		return 0, err
	}
	header := make([]interface{}, len(ExportHeaders))
	for i, h := range ExportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, err
	}
	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := sw.SetRow(cell, memberRecord(m)); err != nil {
			return 0, err
		}
	}
	if err := sw.Flush(); err != nil {
		return 0, err
	}
	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("writing workbook: %w", err)
	}
	return len(members), nil
}

func (s *exportService) Archive(ctx context.Context, operatorID primitive.ObjectID) (*ArchivedExport, error) {
	if s.files == nil {
		return nil, ErrArchiveDisabled
	}
	var buf bytes.Buffer
	count, err := s.WriteMembers(ctx, &buf)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := path.Join("exports", now.Format("2006-01-02"), uuid.NewString()+".xlsx")
	size := int64(buf.Len())
	if err := s.files.PutObject(ctx, key, ExportContentType, &buf, size); err != nil {
		return nil, fmt.Errorf("storing export: %w", err)
	}

	archive := &domain.ExportArchive{
		ObjectKey:   key,
		FileName:    fmt.Sprintf("socios-%s.xlsx", now.Format("2006-01-02")),
		ContentType: ExportContentType,
		Size:        size,
		MemberCount: count,
		CreatedBy:   operatorID,
		CreatedAt:   now,
	}
	if _, err := s.archiveRepo.Create(ctx, archive); err != nil {
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned export object")
		}
		return nil, err
	}
	log.Info().Str("archive", archive.ID.Hex()).Int("members", count).Msg("Member export archived")
	return s.withURL(ctx, archive)
}

func (s *exportService) withURL(ctx context.Context, archive *domain.ExportArchive) (*ArchivedExport, error) {
	url, err := s.files.GeneratePresignedDownloadURL(ctx, archive.ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("generating download URL: %w", err)
	}
	return &ArchivedExport{ExportArchive: *archive, DownloadURL: url}, nil
}

func (s *exportService) ListArchives(ctx context.Context) ([]domain.ExportArchive, error) {
	if s.files == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archiveRepo.List(ctx)
}

func (s *exportService) ArchiveURL(ctx context.Context, archiveID primitive.ObjectID) (*ArchivedExport, error) {
	if s.files == nil {
		return nil, ErrArchiveDisabled
	}
	archive, err := s.archiveRepo.GetByID(ctx, archiveID)
	if err != nil {
		return nil, notFound(err, ErrArchiveNotFound)
	}
	return s.withURL(ctx, archive)
}

func (s *exportService) DeleteArchive(ctx context.Context, archiveID primitive.ObjectID) error {
	if s.files == nil {
		return ErrArchiveDisabled
	}
	archive, err := s.archiveRepo.GetByID(ctx, archiveID)
	if err != nil {
		return notFound(err, ErrArchiveNotFound)
	}
	if err := s.files.DeleteObject(ctx, archive.ObjectKey); err != nil {
		return fmt.Errorf("deleting export object: %w", err)
	}
	if err := s.archiveRepo.Delete(ctx, archiveID); err != nil {
		return notFound(err, ErrArchiveNotFound)
	}
	return nil
}
