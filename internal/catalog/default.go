package catalog

import "github.com/sells-group/clinic-quiz/internal/model"

// Default returns the built-in dental marketing catalog. Each call returns
// a fresh copy.
func Default() *Catalog {
	return &Catalog{
		Questions: defaultQuestions(),
		Solutions: defaultSolutions(),
		Weights:   defaultWeights(),
	}
}

// defaultWeights splits tokens into defining requirements (budget and
// outcome focus) and contextual signals (channel, clinic type).
func defaultWeights() map[string]float64 {
	return map[string]float64{
		// Budget.
		"high":     2,
		"veryHigh": 2,

		// Outcome focus.
		"conversion":   2,
		"optimization": 2,

		// Direction.
		"strategy":    1.5,
		"positioning": 1.5,

		// Operations.
		"resources": 1,
		"branding":  1,
		"content":   1,

		// Channel.
		"sns":      0.5,
		"agency":   0.5,
		"referral": 0.5,
		"none":     0.5,

		// Practice scope.
		"basic":         0.5,
		"specialized":   0.5,
		"comprehensive": 0.5,
		"startup":       0.5,

		"differentiation": 0.5,
	}
}

func defaultQuestions() []model.Question {
	return []model.Question{
		{
			ID:   1,
			Text: "현재 운영 중인 치과의 진료 영역은 어떤가요?",
			Options: []model.QuestionOption{
				{ID: "1a", Text: "단일 진료(보존, 보철 등)중심의 기본 진료", Value: "basic"},
				{ID: "1b", Text: "임플란트, 교정 등 특화 진료를 일부 병행", Value: "specialized"},
				{ID: "1c", Text: "다양한 진료과를 운영하는 종합치과", Value: "comprehensive"},
				{ID: "1d", Text: "아직 확장 계획 중이거나 초기 개원 단계", Value: "startup"},
			},
		},
		{
			ID:   2,
			Text: "현재 마케팅은 어떤 방식으로 진행중인가요?",
			Options: []model.QuestionOption{
				{ID: "2a", Text: "지인 소개 및 자연 유입에 의존", Value: "referral"},
				{ID: "2b", Text: "블로그, 인스타그램 등 SNS 중심", Value: "sns"},
				{ID: "2c", Text: "광고 대행사를 통한 온라인 광고 진행 중", Value: "agency"},
				{ID: "2d", Text: "마케팅을 거의 하지 않고 있음", Value: "none"},
			},
		},
		{
			ID:   3,
			Text: "현재 마케팅 예산은 어느 정도인가요?",
			Options: []model.QuestionOption{
				{ID: "3a", Text: "월 100만원 미만", Value: "low"},
				{ID: "3b", Text: "월 150-300만원", Value: "medium"},
				{ID: "3c", Text: "월 300-500만원", Value: "high"},
				{ID: "3d", Text: "월 800만원 이상", Value: "veryHigh"},
			},
		},
		{
			ID:   4,
			Text: "병원 홍보나 상담 전환에서 가장 어려운 점은 무엇인가요? (중복 선택 가능)",
			Options: []model.QuestionOption{
				{ID: "4a", Text: "병원에 맞는 콘텐츠나 전략이 없다", Value: "content"},
				{ID: "4b", Text: "광고 대비 실질 방문/상담 전환율이 낮다", Value: "conversion"},
				{ID: "4c", Text: "경쟁 치과에 밀려 차별화가 어렵다", Value: "differentiation"},
				{ID: "4d", Text: "마케팅에 쓸 시간과 인력이 부족하다", Value: "resources"},
			},
			AllowMultiple: true,
		},
		{
			ID:   5,
			Text: "컨설팅을 받는다면 어떤 도움이 가장 필요하신가요?",
			Options: []model.QuestionOption{
				{ID: "5a", Text: "진료 분야별 타겟 마케팅 전략 수립", Value: "strategy"},
				{ID: "5b", Text: "지역 경쟁 분석 및 포지셔닝 전략", Value: "positioning"},
				{ID: "5c", Text: "효율적인 광고 예산 운영 및 성과 분석", Value: "optimization"},
				{ID: "5d", Text: "브랜딩 및 병원 이미지 개선", Value: "branding"},
			},
		},
	}
}

func defaultSolutions() []model.Solution {
	return []model.Solution{
		{
			ID:          "dental-referral-to-digital",
			Name:        "입소문 중심 병원의 디지털 전환",
			Description: "자연 유입과 소개에만 의존하던 병원이 온라인 채널을 통해 안정적인 신규 유입 구조를 구축할 수 있도록 돕는 솔루션입니다.",
			Category:    "전환",
			Conditions:  []string{"referral", "basic", "none", "content", "strategy"},
			Benefits: []string{
				"입소문 강점을 유지하면서 디지털 채널 확장",
				"환자 유형 분석 후 타겟 설정",
				"기초 콘텐츠 및 광고 구조 설계",
			},
			EstimatedCost: "월 100-200만원",
			Timeline:      "2-3개월",
		},
		{
			ID:          "dental-agency-insight",
			Name:        "광고대행 성과 점검 및 구조 재설계",
			Description: "기존 광고대행 성과가 기대에 못 미치는 경우, 내부 시각에서 성과를 분석하고 전략을 재설계하는 솔루션입니다.",
			Category:    "분석/최적화",
			Conditions:  []string{"agency", "conversion", "optimization", "high", "veryHigh"},
			Benefits: []string{
				"기존 광고 매체 성과 리포트 제공",
				"전환율 기준의 광고 문구/타겟 분석",
				"광고-상담-예약 구조 정비",
			},
			EstimatedCost: "월 250-400만원",
			Timeline:      "2-4개월",
		},
		{
			ID:          "dental-hybrid-growth",
			Name:        "SNS × 광고 하이브리드 성장 전략",
			Description: "SNS 운영과 광고를 병행 중인 병원에 최적화된 예산 분배와 콘텐츠-광고 전환 시너지 전략을 설계합니다.",
			Category:    "통합",
			Conditions:  []string{"sns", "agency", "medium", "high"},
			Benefits: []string{
				"채널별 고객 여정 정의",
				"광고로 유입된 고객의 SNS 전환 유도",
				"월별 예산 분배 및 성과 모니터링 시스템",
			},
			EstimatedCost: "월 200-350만원",
			Timeline:      "2-4개월",
		},
		{
			ID:          "dental-premium-brand",
			Name:        "프리미엄 브랜드 이미지 구축",
			Description: "고가 진료 중심 또는 경쟁이 심한 지역에서 병원의 전문성과 품격을 드러내는 브랜드 설계를 제공합니다.",
			Category:    "브랜딩",
			Conditions:  []string{"specialized", "branding", "differentiation", "high", "veryHigh"},
			Benefits: []string{
				"프리미엄 이미지에 맞는 시각 브랜딩 설계",
				"전문화된 진료 기반 차별화 콘텐츠",
				"고가 진료 신뢰도 향상 콘텐츠 전략",
			},
			EstimatedCost: "월 400-700만원",
			Timeline:      "3-6개월",
		},
		{
			ID:          "dental-local-leader",
			Name:        "지역 1등 치과 만들기 프로젝트",
			Description: "종합진료 병원을 위한 지역 내 인지도 확보 및 커뮤니티 기반 유입 확장을 위한 캠페인형 솔루션입니다.",
			Category:    "로컬 캠페인",
			Conditions:  []string{"comprehensive", "positioning", "branding", "content", "medium", "high"},
			Benefits: []string{
				"지역 네트워크 기반 파트너십 마케팅",
				"지역주민 중심 메시지 개발",
				"온/오프라인 연계 캠페인 기획",
			},
			EstimatedCost: "월 300-600만원",
			Timeline:      "4-6개월",
		},
		{
			ID:          "dental-smart-automation",
			Name:        "마케팅 자동화 및 상담 시스템 설계",
			Description: "마케팅 인력이 부족한 병원을 위해 최소한의 관리로 지속적인 전환을 만들어내는 자동화 기반 솔루션입니다.",
			Category:    "자동화",
			Conditions:  []string{"resources", "optimization", "conversion", "strategy"},
			Benefits: []string{
				"자동 상담 응답 시스템 도입",
				"예약-상담-후기 흐름 자동화",
				"전환 중심의 마케팅 퍼널 구성",
			},
			EstimatedCost: "월 180-300만원",
			Timeline:      "3-5개월",
		},
		{
			ID:          "dental-performance-max",
			Name:        "하이엔드 광고 퍼포먼스 전략",
			Description: "월 300만원 이상 광고 예산을 보유한 병원을 위해 성과 기반의 타겟 광고와 진료별 전환율 최적화를 동시에 추진하는 고효율 마케팅 캠페인 전략입니다.",
			Category:    "성과 광고",
			Conditions:  []string{"conversion", "optimization", "agency", "high", "veryHigh"},
			Benefits: []string{
				"진료별 광고 캠페인 기획 및 운영",
				"데이터 기반 고객 여정 추적 및 분석",
				"고비용 대비 고전환을 위한 멀티채널 성과 전략",
			},
			EstimatedCost: "월 500-900만원",
			Timeline:      "2-4개월",
		},
		{
			ID:          "dental-total-digital-dx",
			Name:        "디지털 전환 DX 종합 솔루션",
			Description: "병원 전체 마케팅 시스템의 디지털화, 브랜드 중심 구조 개편, 고객 경험 자동화까지 포함한 전방위 디지털 전환 프로젝트입니다.",
			Category:    "DX (Digital Transformation)",
			Conditions:  []string{"comprehensive", "strategy", "veryHigh", "branding", "resources"},
			Benefits: []string{
				"전담 팀 기반 마케팅 체계 설계",
				"CRM, 상담, 후기 자동화 시스템 도입",
				"브랜드 재정립과 비주얼/콘텐츠 통합 설계",
			},
			EstimatedCost: "월 800만원 이상",
			Timeline:      "6-9개월",
		},
	}
}
