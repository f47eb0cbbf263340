package repository

import (
	"context"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotesRepo is the mutation gateway against the notes collection. Ids and
// timestamps are assigned here, never by callers.
type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
	}
}

// CreateNote persists a new note and returns it with id and timestamps set.
func (r *NotesRepo) CreateNote(ctx context.Context, userID string, fields model.NoteFields) (*model.Note, error) {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if userID == "" {
		utils.TrackError("database", "missing_user_id")
		return nil, model.ErrNotAuthenticated
	}

	now := time.Now().UTC()
	note := &model.Note{
		ID:        utils.GenerateNoteID(),
		UserID:    userID,
		Title:     fields.Title,
		Content:   fields.Content,
		Color:     model.NormalizeColor(fields.Color),
		Tags:      model.NormalizeTags(fields.Tags),
		IsPinned:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return nil, err
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

// UpdateNote applies the non-nil patch fields and refreshes updated_at. The
// updated record is returned so callers see the authoritative server state.
func (r *NotesRepo) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Color != nil {
		set["color"] = model.NormalizeColor(*patch.Color)
	}
	if patch.Tags != nil {
		set["tags"] = model.NormalizeTags(*patch.Tags)
	}
	if patch.IsPinned != nil {
		set["is_pinned"] = *patch.IsPinned
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": noteID}, bson.M{"$set": set}, opts).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "note_not_found")
			return nil, model.ErrNoteNotFound
		}
		utils.TrackError("database", "note_update_failed")
		return nil, err
	}

	utils.TrackNoteOperation("update")
	return &note, nil
}

// DeleteNote removes a note by id.
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "note_not_found")
		return model.ErrNoteNotFound
	}

	utils.TrackNoteOperation("delete")
	return nil
}

// GetNote retrieves a single note. A missing note comes back as
// model.ErrNoteNotFound, distinct from transport failures.
func (r *NotesRepo) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrNoteNotFound
		}
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	return &note, nil
}

// GetUserNotes retrieves the complete note set for one user, newest update
// first. This is the snapshot query the watcher re-runs on every change.
func (r *NotesRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "notes_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "notes_decode_failed")
		return nil, err
	}
	return notes, nil
}

// CountUserNotes reports the size of one user's collection, shown on the
// profile endpoint without loading the notes themselves.
func (r *NotesRepo) CountUserNotes(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		utils.TrackError("database", "note_count_failed")
		return 0, err
	}
	return int(count), nil
}
