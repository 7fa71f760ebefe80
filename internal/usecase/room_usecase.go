package usecase

import (
	"context"
	"errors"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomNameTaken = errors.New("room name is already in use")
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, id uint) (*dto.RoomResponse, error)
	GetAllRooms(ctx context.Context) (*dto.RoomListResponse, error)
	UpdateRoom(ctx context.Context, id uint, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uint) error
}

type roomUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	roomRepo repository.RoomRepository
}

func NewRoomUsecase(db *gorm.DB, log *logrus.Logger, roomRepo repository.RoomRepository) RoomUsecase {
	return &roomUsecase{
		db:       db,
		log:      log,
		roomRepo: roomRepo,
	}
}

func (u *roomUsecase) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	db := u.db.WithContext(ctx)

	existing, err := u.roomRepo.FindByName(db, req.Name)
	if err != nil {
		u.log.Warnf("Failed to check room name: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrRoomNameTaken
	}

	room := &entity.Room{
		Name:  req.Name,
		Floor: req.Floor,
	}

	if err := u.roomRepo.Create(db, room); err != nil {
		u.log.Warnf("Failed to create room: %+v", err)
		return nil, err
	}

	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) GetRoom(ctx context.Context, id uint) (*dto.RoomResponse, error) {
	room, err := u.roomRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find room %d: %+v", id, err)
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) GetAllRooms(ctx context.Context) (*dto.RoomListResponse, error) {
	rooms, err := u.roomRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find rooms: %+v", err)
		return nil, err
	}

	return &dto.RoomListResponse{
		Rooms: converter.RoomsToResponses(rooms),
		Total: len(rooms),
	}, nil
}

func (u *roomUsecase) UpdateRoom(ctx context.Context, id uint, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	db := u.db.WithContext(ctx)

	room, err := u.roomRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find room %d: %+v", id, err)
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if req.Name != "" && req.Name != room.Name {
		existing, err := u.roomRepo.FindByName(db, req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrRoomNameTaken
		}
		room.Name = req.Name
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}

	if err := u.roomRepo.Update(db, room); err != nil {
		u.log.Warnf("Failed to update room %d: %+v", id, err)
		return nil, err
	}

	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) DeleteRoom(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	room, err := u.roomRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find room %d: %+v", id, err)
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	if _, err := u.roomRepo.Delete(db, id); err != nil {
		u.log.Warnf("Failed to delete room %d: %+v", id, err)
		return err
	}

	return nil
}
