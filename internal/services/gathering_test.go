package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/oomip/gatherly/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens a fresh throwaway database migrated with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Gathering{},
		&models.Post{},
		&models.Group{},
		&models.Session{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	svc := NewUserService(db)
	user, err := svc.Create(&CreateUserRequest{Username: username, Password: "password123"})
	if err != nil {
		t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

func createTestGathering(t *testing.T, svc *GatheringService, authorID, name string) *models.Gathering {
	t.Helper()

	g, err := svc.Create(&CreateGatheringRequest{Name: name, Location: "park"}, authorID)
	if err != nil {
		t.Fatalf("failed to create gathering %q: %v", name, err)
	}
	return g
}

func TestGatheringCreate_AuthorIsSoleMember(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	if g.ID == "" {
		t.Error("created gathering should have an ID")
	}
	if len(g.Members) != 1 || g.Members[0] != author.ID {
		t.Errorf("Members = %v, expected exactly the author %q", g.Members, author.ID)
	}
	if g.Author != author.ID {
		t.Errorf("Author = %q, expected %q", g.Author, author.ID)
	}
	if len(g.Groups) != 0 {
		t.Errorf("Groups = %v, expected empty", g.Groups)
	}
	if !g.Editable() {
		t.Error("new gathering should be editable")
	}
}

func TestGatheringGetByID_NotFound(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)

	_, err := svc.GetByID("no-such-id")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestGatheringAddMember(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	got, err := svc.GetByID(g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Members) != 2 {
		t.Fatalf("Members = %v, expected 2 entries", got.Members)
	}
	if got.Members[0] != author.ID || got.Members[1] != bob.ID {
		t.Errorf("Members = %v, expected [%s %s]", got.Members, author.ID, bob.ID)
	}
	if got.Editable() {
		t.Error("gathering with two members should not be editable")
	}
}

func TestGatheringAddMember_AlreadyMember(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	err := svc.AddMember(g.ID, bob.ID)
	var am *AlreadyMemberError
	if !errors.As(err, &am) {
		t.Fatalf("expected AlreadyMemberError, got %v", err)
	}

	// Membership must be unchanged after the rejected join.
	got, _ := svc.GetByID(g.ID)
	if len(got.Members) != 2 {
		t.Errorf("Members = %v, expected 2 entries after rejected duplicate join", got.Members)
	}
}

func TestGatheringAddMember_CapacityExceeded(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")

	g := createTestGathering(t, svc, author.ID, "Picnic")
	for i := 0; i < models.MaxGatheringMembers-1; i++ {
		u := createTestUser(t, db, fmt.Sprintf("member%d", i))
		if err := svc.AddMember(g.ID, u.ID); err != nil {
			t.Fatalf("AddMember %d failed: %v", i, err)
		}
	}

	fifth := createTestUser(t, db, "latecomer")
	err := svc.AddMember(g.ID, fifth.ID)
	var tm *TooManyMembersError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TooManyMembersError, got %v", err)
	}
	if tm.Max != models.MaxGatheringMembers {
		t.Errorf("Max = %d, expected %d", tm.Max, models.MaxGatheringMembers)
	}

	got, _ := svc.GetByID(g.ID)
	if len(got.Members) != models.MaxGatheringMembers {
		t.Errorf("Members = %v, member count changed by the rejected join", got.Members)
	}
}

func TestGatheringRemoveMember(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := svc.RemoveMember(g.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	got, _ := svc.GetByID(g.ID)
	if len(got.Members) != 1 || got.Members[0] != author.ID {
		t.Errorf("Members = %v, expected only the author", got.Members)
	}

	// The capacity slot is freed: bob can rejoin.
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Errorf("rejoin after leave failed: %v", err)
	}
}

func TestGatheringRemoveMember_NotInGathering(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	err := svc.RemoveMember(g.ID, bob.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestGatheringRemoveMember_AuthorCannotLeave(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	err := svc.RemoveMember(g.ID, author.ID)
	var acl *AuthorCannotLeaveError
	if !errors.As(err, &acl) {
		t.Errorf("expected AuthorCannotLeaveError, got %v", err)
	}
}

func TestGatheringCanEdit(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	// Sole-member gathering, author asking: allowed.
	if err := svc.CanEdit(author.ID, g.ID); err != nil {
		t.Errorf("author should be able to edit a fresh gathering: %v", err)
	}

	// Non-author asking while still editable: author mismatch.
	err := svc.CanEdit(bob.ID, g.ID)
	var mismatch *AuthorMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected AuthorMismatchError, got %v", err)
	}

	// Missing gathering wins over everything else.
	err = svc.CanEdit(author.ID, "no-such-id")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	// Second member joined: locked, even for the author, and the lock is
	// reported before the author check for non-authors too.
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	var locked *UneditableError
	if err := svc.CanEdit(author.ID, g.ID); !errors.As(err, &locked) {
		t.Errorf("expected UneditableError for author, got %v", err)
	}
	if err := svc.CanEdit(bob.ID, g.ID); !errors.As(err, &locked) {
		t.Errorf("expected UneditableError for non-author, got %v", err)
	}
}

func TestGatheringCanEdit_RestoredAfterLeave(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g := createTestGathering(t, svc, author.ID, "Picnic")
	if err := svc.AddMember(g.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := svc.RemoveMember(g.ID, bob.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	if err := svc.CanEdit(author.ID, g.ID); err != nil {
		t.Errorf("editability should be restored once the author is sole member again: %v", err)
	}
}

func TestGatheringUpdate_PartialFields(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	if _, err := svc.Update(g.ID, &UpdateGatheringRequest{Location: "beach"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := svc.GetByID(g.ID)
	if got.Location != "beach" {
		t.Errorf("Location = %q, expected %q", got.Location, "beach")
	}
	if got.Name != "Picnic" {
		t.Errorf("Name = %q, untouched field should keep its value", got.Name)
	}
}

func TestGatheringGroups_AddAndRemove(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	author := createTestUser(t, db, "alice")

	g := createTestGathering(t, svc, author.ID, "Picnic")

	if err := svc.AddGroup(g.ID, "group-1"); err != nil {
		t.Fatalf("AddGroup failed: %v", err)
	}

	got, _ := svc.GetByID(g.ID)
	if !got.Groups.Contains("group-1") {
		t.Errorf("Groups = %v, expected group-1 linked", got.Groups)
	}
	if got.Members.Contains("group-1") {
		t.Errorf("Members = %v, group linkage must not touch the member list", got.Members)
	}

	err := svc.AddGroup(g.ID, "group-1")
	var linked *GroupAlreadyLinkedError
	if !errors.As(err, &linked) {
		t.Errorf("expected GroupAlreadyLinkedError, got %v", err)
	}

	if err := svc.RemoveGroup(g.ID, "group-1"); err != nil {
		t.Fatalf("RemoveGroup failed: %v", err)
	}
	got, _ = svc.GetByID(g.ID)
	if len(got.Groups) != 0 {
		t.Errorf("Groups = %v, expected empty after unlink", got.Groups)
	}

	var nf *NotFoundError
	if err := svc.RemoveGroup(g.ID, "group-1"); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError removing unlinked group, got %v", err)
	}
}

func TestGatheringMembershipQueries(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	g1 := createTestGathering(t, svc, alice.ID, "Picnic")
	g2 := createTestGathering(t, svc, alice.ID, "Hike")
	createTestGathering(t, svc, bob.ID, "Movie Night")

	if err := svc.AddMember(g2.ID, bob.ID); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	ofBob, err := svc.GetGatheringsOfMember(bob.ID)
	if err != nil {
		t.Fatalf("GetGatheringsOfMember failed: %v", err)
	}
	if len(ofBob) != 2 {
		t.Errorf("bob is in %d gatherings, expected 2", len(ofBob))
	}

	// g2 has two members now, so only g1 remains editable for alice.
	editable, err := svc.GetEditableGatheringsOfMember(alice.ID)
	if err != nil {
		t.Fatalf("GetEditableGatheringsOfMember failed: %v", err)
	}
	if len(editable) != 1 || editable[0].ID != g1.ID {
		t.Errorf("editable = %v, expected only %q", editable, g1.ID)
	}

	isMember, err := svc.IsMemberOf(bob.ID, g2.ID)
	if err != nil || !isMember {
		t.Errorf("IsMemberOf(bob, g2) = %v, %v; expected true", isMember, err)
	}
	isMember, err = svc.IsMemberOf(bob.ID, g1.ID)
	if err != nil || isMember {
		t.Errorf("IsMemberOf(bob, g1) = %v, %v; expected false", isMember, err)
	}
}

func TestGatheringList_Filters(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	alice := createTestUser(t, db, "alice")

	if _, err := svc.Create(&CreateGatheringRequest{Name: "Beach Picnic", Location: "santa cruz"}, alice.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(&CreateGatheringRequest{Name: "Board Games", Location: "library"}, alice.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all, err := svc.List(&GatheringListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List returned %d gatherings, expected 2", len(all))
	}

	byName, err := svc.List(&GatheringListRequest{Name: "Picnic"})
	if err != nil {
		t.Fatalf("List by name failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Beach Picnic" {
		t.Errorf("List(name=Picnic) = %v, expected only Beach Picnic", byName)
	}

	byLocation, err := svc.List(&GatheringListRequest{Location: "library"})
	if err != nil {
		t.Fatalf("List by location failed: %v", err)
	}
	if len(byLocation) != 1 || byLocation[0].Name != "Board Games" {
		t.Errorf("List(location=library) = %v, expected only Board Games", byLocation)
	}
}

func TestGatheringDelete(t *testing.T) {
	db := testDB(t)
	svc := NewGatheringService(db)
	alice := createTestUser(t, db, "alice")

	g := createTestGathering(t, svc, alice.ID, "Picnic")

	name, err := svc.Delete(g.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if name != "Picnic" {
		t.Errorf("Delete returned name %q, expected %q", name, "Picnic")
	}

	_, err = svc.GetByID(g.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}
}
