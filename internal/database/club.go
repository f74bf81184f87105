package database

import (
	"context"

	"github.com/thereayou/campus-hub/internal/models"
)

// CreateClub создает клуб и добавляет владельца в участники одной транзакцией
func (d *Database) CreateClub(ctx context.Context, club *models.Club) error {
	return d.WithTx(ctx, func(ctx context.Context) error {
		if err := d.conn(ctx).Omit("Members").Create(club).Error; err != nil {
			return translate(err)
		}
		return d.AddClubMember(ctx, club.ID, club.OwnerID)
	})
}

func (d *Database) GetClub(ctx context.Context, id string) (*models.Club, error) {
	var club models.Club
	if err := d.conn(ctx).First(&club, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

func (d *Database) GetClubWithMembers(ctx context.Context, id string) (*models.Club, error) {
	var club models.Club
	if err := d.conn(ctx).Preload("Members").First(&club, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &club, nil
}

func (d *Database) GetUserClubs(ctx context.Context, userID string) ([]models.Club, error) {
	var clubs []models.Club
	err := d.conn(ctx).
		Joins("JOIN club_members cm ON cm.club_id = clubs.id").
		Where("cm.user_id = ?", userID).
		Order("clubs.created_at").
		Find(&clubs).Error
	return clubs, translate(err)
}

// Членство хранится одной строкой club_members, поэтому список клуба
// и список клубов пользователя не могут разойтись.

func (d *Database) IsClubMember(ctx context.Context, clubID, userID string) (bool, error) {
	var n int64
	err := d.conn(ctx).Table("club_members").
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&n).Error
	return n > 0, absent(err)
}

func (d *Database) AddClubMember(ctx context.Context, clubID, userID string) error {
	return d.conn(ctx).Exec(
		"INSERT INTO club_members (club_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		clubID, userID,
	).Error
}

func (d *Database) RemoveClubMember(ctx context.Context, clubID, userID string) (bool, error) {
	res := d.conn(ctx).Exec("DELETE FROM club_members WHERE club_id = ? AND user_id = ?", clubID, userID)
	return res.RowsAffected > 0, absent(res.Error)
}

func (d *Database) FindPendingRequest(ctx context.Context, clubID, userID string) (*models.ClubJoinRequest, error) {
	var req models.ClubJoinRequest
	err := d.conn(ctx).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, models.RequestPending).
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (d *Database) ListPendingRequests(ctx context.Context, clubID string) ([]models.ClubJoinRequest, error) {
	var reqs []models.ClubJoinRequest
	err := d.conn(ctx).
		Where("club_id = ? AND status = ?", clubID, models.RequestPending).
		Order("created_at").
		Preload("User").
		Find(&reqs).Error
	return reqs, translate(err)
}

func (d *Database) CreateJoinRequest(ctx context.Context, req *models.ClubJoinRequest) error {
	return translate(d.conn(ctx).Omit("User").Create(req).Error)
}

// DeletePendingRequest удаляет заявку только если она еще pending.
// Из двух конкурентных вызовов строку удалит ровно один.
func (d *Database) DeletePendingRequest(ctx context.Context, clubID, userID string) (bool, error) {
	res := d.conn(ctx).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, models.RequestPending).
		Delete(&models.ClubJoinRequest{})
	return res.RowsAffected > 0, absent(res.Error)
}
