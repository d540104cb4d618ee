package service

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/acckaguya/TrafficSign-System/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// rekognitionDetector là phần của rekognition.Client mà DetectorService dùng.
type rekognitionDetector interface {
	DetectCustomLabels(ctx context.Context, params *rekognition.DetectCustomLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectCustomLabelsOutput, error)
}

// DetectorService bọc model nhận diện biển báo (Rekognition Custom Labels)
// thành contract detect-or-none: mỗi frame trả về tối đa một detection tốt nhất,
// mọi lỗi (client lỗi, timeout, model chưa cấu hình) đều là "không có detection".
type DetectorService struct {
	client        rekognitionDetector
	modelARN      string
	minConfidence float64 // Theo %, cùng đơn vị với Rekognition
	timeout       time.Duration
}

func NewDetectorService(client *rekognition.Client, modelARN string, minConfidence float64, timeout time.Duration) *DetectorService {
	s := &DetectorService{
		modelARN:      modelARN,
		minConfidence: minConfidence,
		timeout:       timeout,
	}
	if client != nil {
		s.client = client
	}
	if !s.Enabled() {
		log.Println("DetectorService: model chưa được cấu hình, mọi detect sẽ trả về không có kết quả.")
	}
	return s
}

// Enabled cho biết detector có sẵn sàng không. Không sẵn sàng thì hệ thống
// vẫn phục vụ bình thường, chỉ là không bao giờ có detection.
func (s *DetectorService) Enabled() bool {
	return s.client != nil && s.modelARN != ""
}

// DetectOrNone chạy nhận diện trên một frame và trả về detection có confidence
// cao nhất, hoặc nil. Speed đi kèm để log chẩn đoán, model hiện không dùng đến.
func (s *DetectorService) DetectOrNone(ctx context.Context, frame domain.Frame, speed int) *domain.Detection {
	if !s.Enabled() {
		return nil
	}

	detectCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	output, err := s.client.DetectCustomLabels(detectCtx, &rekognition.DetectCustomLabelsInput{
		ProjectVersionArn: aws.String(s.modelARN),
		Image:             &types.Image{Bytes: frame.Bytes},
		MinConfidence:     aws.Float32(float32(s.minConfidence)),
	})
	inferCost := time.Since(start)
	if err != nil {
		log.Printf("DetectorService: Lỗi detect (speed=%d): %v", speed, err)
		return nil
	}

	best := bestLabel(output.CustomLabels)
	if best == nil {
		log.Printf("DetectorService: [không có mục tiêu] %dx%d | mất %dms", frame.Width, frame.Height, inferCost.Milliseconds())
		return nil
	}

	detection := toDetection(best, frame)
	log.Printf("DetectorService: [detect thành công] %dx%d | mất %dms | mục tiêu:%d | tốt nhất:%s (conf:%.2f)",
		frame.Width, frame.Height, inferCost.Milliseconds(), len(output.CustomLabels), detection.ClassID, detection.Confidence)
	return detection
}

// bestLabel chọn label có confidence cao nhất; bằng nhau thì lấy cái xuất hiện trước.
func bestLabel(labels []types.CustomLabel) *types.CustomLabel {
	var best *types.CustomLabel
	for i := range labels {
		l := &labels[i]
		if l.Name == nil || l.Confidence == nil {
			continue
		}
		if best == nil || *l.Confidence > *best.Confidence {
			best = l
		}
	}
	return best
}

// toDetection chuẩn hóa kết quả Rekognition: confidence từ % về [0,1],
// bounding box tương đối về tọa độ pixel [x1,y1,x2,y2] theo kích thước frame.
func toDetection(label *types.CustomLabel, frame domain.Frame) *domain.Detection {
	d := &domain.Detection{
		ClassID:    *label.Name,
		Confidence: math.Round(float64(*label.Confidence)) / 100,
	}
	if label.Geometry != nil && label.Geometry.BoundingBox != nil {
		box := label.Geometry.BoundingBox
		w := float64(frame.Width)
		h := float64(frame.Height)
		x1 := float64(aws.ToFloat32(box.Left)) * w
		y1 := float64(aws.ToFloat32(box.Top)) * h
		d.BBox = [4]float64{
			x1,
			y1,
			x1 + float64(aws.ToFloat32(box.Width))*w,
			y1 + float64(aws.ToFloat32(box.Height))*h,
		}
	}
	return d
}
