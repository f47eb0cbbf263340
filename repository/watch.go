package repository

import (
	"context"
	"sync"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotesWatcher turns MongoDB change streams into the snapshot subscription
// the note store consumes: an initial full snapshot on subscribe, then a
// fresh full snapshot after every change to the user's notes. Requires the
// deployment to run as a replica set.
type NotesWatcher struct {
	repo *NotesRepo
}

func GetNotesWatcher(repo *NotesRepo) *NotesWatcher {
	return &NotesWatcher{repo: repo}
}

// Subscribe opens the live-update channel for one user. The returned
// function releases it; calling it more than once is harmless, but it must
// be called at least once or the stream leaks.
func (w *NotesWatcher) Subscribe(userID string, onSnapshot func([]*model.Note), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Delete events carry no fullDocument, so they match on operation type
	// and the re-query below narrows back down to this user.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.user_id": userID},
				{"operationType": "delete"},
			},
		}}},
	}
	streamOpts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := w.repo.MongoCollection.Watch(ctx, pipeline, streamOpts)
	if err != nil {
		cancel()
		return nil, err
	}

	notes, err := w.repo.GetUserNotes(ctx, userID)
	if err != nil {
		stream.Close(context.Background())
		cancel()
		return nil, err
	}
	onSnapshot(notes)

	utils.ActiveSubscriptions.Inc()
	go func() {
		defer utils.ActiveSubscriptions.Dec()
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			snapshot, err := w.repo.GetUserNotes(ctx, userID)
			if err != nil {
				onError(err)
				continue
			}
			utils.SnapshotsDelivered.Inc()
			onSnapshot(snapshot)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onError(err)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
