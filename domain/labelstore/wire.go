package labelstore

import (
	"github.com/soocke/pose-label-go/domain/annotation"
	"github.com/soocke/pose-label-go/domain/geometry"
)

// Wire shapes exchanged with the label store.

type framesResponse struct {
	Frames []string `json:"frames"`
}

type wireFrame struct {
	FrameName    string                    `json:"frame_name"`
	Frame        string                    `json:"frame"`
	Labeled      bool                      `json:"labeled"`
	Label        *int                      `json:"label"`
	HandLabel    *int                      `json:"hand_label"`
	HeadBox      *geometry.BBox            `json:"head_box"`
	LeftHandBox  *geometry.BBox            `json:"left_hand_box"`
	RightHandBox *geometry.BBox            `json:"right_hand_box"`
	Keypoints    *annotation.Keypoints     `json:"keypoints"`
	Detections   []annotation.DetectionBox `json:"detections"`
}

func (w wireFrame) name() string {
	if w.FrameName != "" {
		return w.FrameName
	}
	return w.Frame
}

func (w wireFrame) meta() annotation.FrameMeta {
	m := annotation.FrameMeta{
		Labeled:      w.Labeled,
		HeadBox:      w.HeadBox,
		LeftHandBox:  w.LeftHandBox,
		RightHandBox: w.RightHandBox,
		Keypoints:    w.Keypoints,
	}
	if w.Label != nil {
		m.Label = annotation.Label(*w.Label)
	}
	if w.HandLabel != nil {
		m.HandLabel = annotation.Label(*w.HandLabel)
	}
	return m
}

type labelsResponse struct {
	TotalFrames   int         `json:"total_frames"`
	LabeledFrames int         `json:"labeled_frames"`
	Detail        []wireFrame `json:"detail"`
}

type wireBoxes struct {
	Head      geometry.BBox `json:"head"`
	LeftHand  geometry.BBox `json:"left_hand"`
	RightHand geometry.BBox `json:"right_hand"`
}

type saveRequest struct {
	Boxes     wireBoxes             `json:"boxes"`
	Label     int                   `json:"label"`
	HandLabel int                   `json:"hand_label"`
	Keypoints *annotation.Keypoints `json:"keypoints,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type exportResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"download_url"`
}

type detectionsRequest struct {
	Detections []annotation.DetectionBox `json:"detections"`
	Saved      bool                      `json:"saved"`
}

type detectionsResponse struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}
