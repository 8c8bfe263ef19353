package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
	"fedadmin/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC)
}

func TestExportFilename(t *testing.T) {
	at := fixedClock()
	assert.Equal(t, "users-export-2026-03-05.csv", engine.ExportFilename("users", engine.FormatCSV, at))
	assert.Equal(t, "courts-export-2026-03-05.xlsx", engine.ExportFilename("courts", engine.FormatExcel, at))
	assert.Equal(t, "microsites-export-2026-03-05.pdf", engine.ExportFilename("microsites", engine.FormatPDF, at))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]engine.Format{"csv": engine.FormatCSV, "XLSX": engine.FormatExcel, "excel": engine.FormatExcel, " pdf": engine.FormatPDF} {
		got, err := engine.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := engine.ParseFormat("docx")
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, "application/pdf", engine.FormatPDF.ContentType())
}

func TestExportFailureTouchesNothingElse(t *testing.T) {
	pub := &recorder{}
	v, b := pendingView(t, pub)
	v.Selection().SetAll([]int64{10})
	filter, items, page, lists := v.Filter(), v.Collection().Items(), v.Pagination(), b.lists()
	b.exportErr = errors.New("renderer crashed")
	saver := &fakeSaver{}

	req, err := v.Export(engine.FormatPDF)
	require.NoError(t, err)
	assert.True(t, v.Exporter().Loading(engine.FormatPDF))

	v.ApplyExport(req.Run(context.Background(), b, saver))

	assert.False(t, v.Exporter().Loading(engine.FormatPDF))
	assert.False(t, v.Exporter().AnyLoading())
	require.Error(t, v.Exporter().Err(engine.FormatPDF))
	assert.True(t, errs.HasCode(v.Exporter().Err(engine.FormatPDF), errs.CodeExportFailure))
	assert.Empty(t, saver.saved)

	assert.True(t, filter.Equal(v.Filter()))
	assert.Equal(t, items, v.Collection().Items())
	assert.Equal(t, page, v.Pagination())
	assert.Equal(t, []int64{10}, v.Selection().IDs())
	assert.Equal(t, engine.BulkIdle, v.Bulk().State())
	assert.Equal(t, lists, b.lists())
	assert.Contains(t, pub.types(), domain.EventExportFailed)
}

func TestExportFailureIsKeptPerFormat(t *testing.T) {
	v, b := pendingView(t, nil)
	saver := &fakeSaver{}
	b.exportErr = errors.New("renderer crashed")

	_, err := v.ExportNow(context.Background(), engine.FormatPDF, saver)
	require.Error(t, err)

	b.exportErr = nil
	_, err = v.ExportNow(context.Background(), engine.FormatCSV, saver)
	require.NoError(t, err)

	assert.NoError(t, v.Exporter().Err(engine.FormatCSV))
	assert.True(t, errs.HasCode(v.Exporter().Err(engine.FormatPDF), errs.CodeExportFailure),
		"a csv export does not clear the pdf failure")

	_, err = v.Export(engine.FormatPDF)
	require.NoError(t, err)
	assert.NoError(t, v.Exporter().Err(engine.FormatPDF), "retrying pdf clears its failure")
}

func TestExportSavesUnderDeterministicName(t *testing.T) {
	b := newFakeBackend()
	b.exportFile = engine.ExportFile{ContentType: "text/csv", Data: []byte("id,name\n1,Ana\n")}
	v := engine.NewView[row](context.Background(), b, engine.Options{
		Domain: "users", Fields: []string{"status"}, Clock: fixedClock,
	})
	req, err := v.UpdateFilter("status", "pending")
	require.NoError(t, err)
	require.NoError(t, v.FetchNow(req))
	saver := &fakeSaver{}

	location, err := v.ExportNow(context.Background(), engine.FormatCSV, saver)

	require.NoError(t, err)
	assert.Equal(t, "mem://users-export-2026-03-05.csv", location)
	assert.Equal(t, location, v.Exporter().LastSaved())
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "text/csv", saver.saved[0].contentType)
	require.Len(t, b.exportCalls, 1)
	assert.Equal(t, "pending", b.exportCalls[0].Filter.Get("status"))
	assert.Equal(t, engine.FormatCSV, b.exportCalls[0].Format)
}

func TestExportRetriggerWhileLoadingIsRefused(t *testing.T) {
	v, _ := pendingView(t, nil)

	_, err := v.Export(engine.FormatCSV)
	require.NoError(t, err)

	_, err = v.Export(engine.FormatCSV)
	assert.True(t, errs.IsBusy(err))

	_, err = v.Export(engine.FormatExcel)
	assert.NoError(t, err, "formats load independently")
}

func TestExportSaverFailureIsExportError(t *testing.T) {
	v, b := pendingView(t, nil)
	b.exportFile = engine.ExportFile{Data: []byte("%PDF")}

	_, err := v.ExportNow(context.Background(), engine.FormatPDF, &fakeSaver{err: errors.New("disk full")})

	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeExportFailure))
	assert.False(t, v.Exporter().Loading(engine.FormatPDF))
}
