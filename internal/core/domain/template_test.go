package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTemplateWithVersions(t *testing.T, n int) *Template {
	t.Helper()
	tpl := NewTemplate("contract", "customer contracts")
	for i := 1; i <= n; i++ {
		name := "file.zip"
		tpl.AddVersion(name, BuildStoragePath(tpl.Name(), i, name), "http://signed", time.Now().Add(15*time.Minute))
	}
	return tpl
}

func TestAddVersion_SequentialNumbering(t *testing.T) {
	tpl := newTemplateWithVersions(t, 3)

	versions := tpl.Versions()
	assert.Len(t, versions, 3)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber())
	}
	assert.Equal(t, 3, tpl.Version())
	assert.Equal(t, 3, tpl.LatestVersion().VersionNumber())
}

func TestAddVersion_SeedsHistory(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)

	v := tpl.Versions()[0]
	assert.True(t, v.IsActive())
	history := v.StatusHistory()
	assert.Len(t, history, 1)
	assert.Equal(t, ReasonVersionCreated, history[0].Reason)
	assert.True(t, history[0].System)

	tplHistory := tpl.StatusHistory()
	assert.Len(t, tplHistory, 1)
	assert.Equal(t, ReasonTemplateCreated, tplHistory[0].Reason)
}

func TestVersionLookups(t *testing.T) {
	tpl := newTemplateWithVersions(t, 2)
	v2 := tpl.Versions()[1]

	assert.Equal(t, v2, tpl.GetVersionByID(v2.ID()))
	assert.Equal(t, v2, tpl.GetVersionByNumber(2))
	assert.Nil(t, tpl.GetVersionByID(uuid.New()))
	assert.Nil(t, tpl.GetVersionByNumber(99))
}

func TestRemoveVersion_KeepsCounter(t *testing.T) {
	tpl := newTemplateWithVersions(t, 3)
	v2 := tpl.GetVersionByNumber(2)

	assert.True(t, tpl.RemoveVersion(v2.ID()))
	assert.Len(t, tpl.Versions(), 2)
	assert.Equal(t, 3, tpl.Version())

	// Numbering continues after the gap.
	v := tpl.AddVersion("file.zip", "contract/V4/Raw/file.zip", "http://signed", time.Now())
	assert.Equal(t, 4, v.VersionNumber())
}

func TestRemoveVersion_UnknownID(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)
	assert.False(t, tpl.RemoveVersion(uuid.New()))
	assert.Len(t, tpl.Versions(), 1)
}

func TestStatusPropagation_ORReduction(t *testing.T) {
	tpl := newTemplateWithVersions(t, 3)
	versions := tpl.Versions()

	assert.True(t, tpl.DeactivateVersion(versions[0].ID(), "obsolete"))
	assert.True(t, tpl.IsActive())

	assert.True(t, tpl.DeactivateVersion(versions[1].ID(), "obsolete"))
	assert.True(t, tpl.IsActive())

	assert.True(t, tpl.DeactivateVersion(versions[2].ID(), "obsolete"))
	assert.False(t, tpl.IsActive())

	assert.True(t, tpl.ActivateVersion(versions[1].ID(), "restored"))
	assert.True(t, tpl.IsActive())
}

func TestStatusPropagation_EntryOnlyOnFlip(t *testing.T) {
	tpl := newTemplateWithVersions(t, 2)
	versions := tpl.Versions()

	before := len(tpl.StatusHistory())
	tpl.DeactivateVersion(versions[0].ID(), "obsolete")
	// Template stayed active, no template-level entry.
	assert.Len(t, tpl.StatusHistory(), before)

	tpl.DeactivateVersion(versions[1].ID(), "obsolete")
	history := tpl.StatusHistory()
	assert.Len(t, history, before+1)
	last := history[len(history)-1]
	assert.False(t, last.IsActive)
	assert.Equal(t, ReasonAutoDeactivated, last.Reason)
	assert.True(t, last.System)
}

func TestStatusPropagation_UnknownVersion(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)
	assert.False(t, tpl.ActivateVersion(uuid.New(), ""))
	assert.False(t, tpl.DeactivateVersion(uuid.New(), ""))
}

func TestBulkDeactivate_ForcesStatusDirectly(t *testing.T) {
	tpl := newTemplateWithVersions(t, 3)

	tpl.DeactivateAllVersions("retired")
	assert.False(t, tpl.IsActive())
	for _, v := range tpl.Versions() {
		assert.False(t, v.IsActive())
		history := v.StatusHistory()
		assert.Equal(t, "retired", history[len(history)-1].Reason)
		assert.False(t, history[len(history)-1].System)
	}

	history := tpl.StatusHistory()
	last := history[len(history)-1]
	assert.Equal(t, "retired", last.Reason)
	assert.False(t, last.IsActive)
}

func TestBulkDeactivateThenReactivateOne(t *testing.T) {
	tpl := newTemplateWithVersions(t, 3)
	versions := tpl.Versions()

	tpl.DeactivateAllVersions("retired")
	assert.False(t, tpl.IsActive())

	// Reactivating a single version flips the template back through the
	// OR-reduction, recording a system entry this time.
	assert.True(t, tpl.ActivateVersion(versions[0].ID(), "rollback"))
	assert.True(t, tpl.IsActive())

	history := tpl.StatusHistory()
	last := history[len(history)-1]
	assert.True(t, last.IsActive)
	assert.Equal(t, ReasonAutoActivated, last.Reason)
	assert.True(t, last.System)
}

func TestStatusHistory_AppendOnly(t *testing.T) {
	tpl := newTemplateWithVersions(t, 2)
	versions := tpl.Versions()

	snapshot := tpl.StatusHistory()
	lengths := []int{len(snapshot)}

	tpl.DeactivateAllVersions("retired")
	tpl.ActivateVersion(versions[0].ID(), "rollback")
	tpl.DeactivateVersion(versions[0].ID(), "again")

	history := tpl.StatusHistory()
	lengths = append(lengths, len(history))
	assert.Greater(t, lengths[1], lengths[0])

	// Earlier entries are untouched.
	assert.Equal(t, snapshot, history[:len(snapshot)])
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].ChangedAt.Before(history[i-1].ChangedAt))
	}
}

func TestStatusHistory_CopyOnRead(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)

	history := tpl.StatusHistory()
	history[0].Reason = "tampered"
	assert.Equal(t, ReasonTemplateCreated, tpl.StatusHistory()[0].Reason)
}

func TestUpdateDescription(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)
	tpl.UpdateDescription("")
	assert.Equal(t, "", tpl.Description())
}

func TestRecordUpload(t *testing.T) {
	tpl := newTemplateWithVersions(t, 1)
	v := tpl.Versions()[0]
	assert.Equal(t, int64(0), v.FileSize())

	v.RecordUpload(2048)
	assert.Equal(t, int64(2048), v.FileSize())
}

func TestRestoreVersionCounter(t *testing.T) {
	tpl := NewTemplate("contract", "")
	tpl.RestoreVersionCounter(3)
	assert.Equal(t, 3, tpl.Version())

	// Never lowers the counter.
	tpl.RestoreVersionCounter(1)
	assert.Equal(t, 3, tpl.Version())

	v := tpl.AddVersion("a.zip", "contract/V4/Raw/a.zip", "http://signed", time.Now())
	assert.Equal(t, 4, v.VersionNumber())
}

func TestRehydrate_RoundTrip(t *testing.T) {
	tpl := newTemplateWithVersions(t, 2)
	tpl.DeactivateVersion(tpl.Versions()[0].ID(), "obsolete")
	tpl.Versions()[1].RecordUpload(512)

	rec := tpl.Snapshot()
	restored := RehydrateTemplate(rec)

	assert.Equal(t, rec, restored.Snapshot())
	assert.Equal(t, tpl.ID(), restored.ID())
	assert.Equal(t, tpl.Version(), restored.Version())
	assert.Equal(t, tpl.IsActive(), restored.IsActive())
	assert.Len(t, restored.Versions(), 2)
}

func TestScenario_ContractUploads(t *testing.T) {
	tpl := NewTemplate("contract", "customer contracts")

	v1 := tpl.AddVersion("a.zip", BuildStoragePath("contract", NextVersionNumber(tpl.Version()), "a.zip"), "http://signed", time.Now())
	assert.Equal(t, 1, v1.VersionNumber())
	assert.Equal(t, "contract/V1/Raw/a.zip", v1.StoragePath())

	v2 := tpl.AddVersion("b.zip", BuildStoragePath("contract", NextVersionNumber(tpl.Version()), "b.zip"), "http://signed", time.Now())
	assert.Equal(t, 2, v2.VersionNumber())
	assert.Equal(t, "contract/V2/Raw/b.zip", v2.StoragePath())
	assert.Equal(t, 2, tpl.Version())

	tpl.DeactivateVersion(v1.ID(), "superseded")
	assert.True(t, tpl.IsActive())

	tpl.DeactivateVersion(v2.ID(), "superseded")
	assert.False(t, tpl.IsActive())
}
