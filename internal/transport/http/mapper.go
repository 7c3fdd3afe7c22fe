package http

import (
	"encoding/json"
	"strings"

	"github.com/vovakirdan/whitered-server/internal/core"
	"github.com/vovakirdan/whitered-server/internal/proto"
)

// inboundToCommand turns a wire envelope into a core command. A protocol
// error means the frame was understood but malformed; a plain error means
// the frame could not be decoded at all.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		var data proto.CreateRoomData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandCreateRoom, Name: data.Name}, nil, nil

	case proto.InboundTypeJoinRoom:
		var data proto.JoinRoomData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: roomCode(data.Room), Name: data.Name}, nil, nil

	case proto.InboundTypeStartGame:
		var data proto.RoomData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandStartGame, Room: roomCode(data.Room)}, nil, nil

	case proto.InboundTypeReconnect:
		var data proto.ReconnectData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" || data.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room and name are required"}, nil
		}
		return &core.Command{Kind: core.CommandReconnect, Room: roomCode(data.Room), Name: data.Name}, nil, nil

	case proto.InboundTypeSetSecret:
		var data proto.SetSecretData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandSetSecret, Room: roomCode(data.Room), Secret: data.Secret}, nil, nil

	case proto.InboundTypeGuess:
		var data proto.GuessData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandGuess, Room: roomCode(data.Room), Guess: data.Guess}, nil, nil

	case proto.InboundTypeSendChat:
		var data proto.ChatData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandChat, Room: roomCode(data.Room), Text: data.Message, Name: data.Name}, nil, nil

	case proto.InboundTypeTyping:
		var data proto.TypingData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandTyping, Room: roomCode(data.Room), IsTyping: data.IsTyping}, nil, nil

	case proto.InboundTypeRequestRematch:
		var data proto.RoomData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandRequestRematch, Room: roomCode(data.Room)}, nil, nil

	case proto.InboundTypeLeaveRoom:
		var data proto.RoomData
		if err := unmarshalData(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, roomRequired(), nil
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: roomCode(data.Room)}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func unmarshalData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// roomCode normalizes a client-supplied code; matching is
// case-insensitive.
func roomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func roomRequired() *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomCreated:
		return outboundEvent(proto.EventRoomCreated, proto.EventRoomCreatedData{Room: event.Room})
	case core.EventJoined:
		return outboundEvent(proto.EventJoined, proto.EventJoinedData{Room: event.Room, Started: event.Started})
	case core.EventPlayerJoined:
		return outboundEvent(proto.EventPlayerJoined, proto.EventPlayerJoinedData{Name: event.Name, Started: event.Started})
	case core.EventPlayerNames:
		data := proto.EventPlayerNamesData{Self: event.Name}
		if event.Opponent != "" {
			opponent := event.Opponent
			data.Opponent = &opponent
		}
		return outboundEvent(proto.EventPlayerNames, data)
	case core.EventHostInfo:
		return outboundEvent(proto.EventHostInfo, proto.EventHostInfoData{HostID: event.User})
	case core.EventGameStarted:
		return outboundEvent(proto.EventGameStarted, nil)
	case core.EventPlayerLocked:
		return outboundEvent(proto.EventPlayerLocked, proto.EventPlayerLockedData{By: event.User})
	case core.EventBothReady:
		return outboundEvent(proto.EventBothReady, proto.EventBothReadyData{CurrentTurn: event.User})
	case core.EventGuessResult:
		return outboundEvent(proto.EventGuessResult, proto.EventGuessFeedbackData{Guess: event.Guess, Whites: event.Whites, Reds: event.Reds})
	case core.EventOpponentGuessed:
		return outboundEvent(proto.EventOpponentGuessed, proto.EventGuessFeedbackData{Guess: event.Guess, Whites: event.Whites, Reds: event.Reds})
	case core.EventGameOver:
		return outboundEvent(proto.EventGameOver, proto.EventGameOverData{Winner: event.User})
	case core.EventTurnChanged:
		return outboundEvent(proto.EventTurnChanged, proto.EventTurnChangedData{CurrentTurn: event.User})
	case core.EventChatMessage:
		return outboundEvent(proto.EventChatMessage, proto.EventChatMessageData{From: event.User, Name: event.Name, Message: event.Text, At: event.At})
	case core.EventTyping:
		return outboundEvent(proto.EventTyping, proto.EventTypingData{From: event.User, IsTyping: event.IsTyping})
	case core.EventRematchStatus:
		return outboundEvent(proto.EventRematchStatus, proto.EventRematchStatusData{Count: event.Count})
	case core.EventRematchStarted:
		return outboundEvent(proto.EventRematchStarted, nil)
	case core.EventPlayerLeft:
		return outboundEvent(proto.EventPlayerLeft, proto.EventPlayerLeftData{By: event.User})
	case core.EventPlayerReconnected:
		return outboundEvent(proto.EventPlayerReconnected, proto.EventPlayerReconnectedData{ID: event.User, Name: event.Name})
	case core.EventHostChanged:
		return outboundEvent(proto.EventHostChanged, proto.EventHostChangedData{NewHost: event.User, Name: event.Name})
	case core.EventReconnected:
		return outboundEvent(proto.EventReconnected, proto.EventReconnectedData{OK: true})
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func outboundEvent(name string, data any) proto.Outbound {
	return proto.Outbound{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}
