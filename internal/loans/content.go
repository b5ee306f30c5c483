package loans

import "branchdesk/internal/shared/i18n"

type loanTypeContent struct {
	title       i18n.Text
	description i18n.Text
}

var loanTypeContents = map[LoanType]loanTypeContent{
	LoanTypePersonal: {
		title: i18n.T("Personal Loan", "पर्सनल लोन", "தனிநபர் கடன்", "వ్యక్తిగత రుణం"),
		description: i18n.T(
			"Quick personal loans with minimal documentation",
			"न्यूनतम दस्तावेज़ों के साथ त्वरित पर्सनल लोन",
			"குறைந்த ஆவணங்களுடன் விரைவான தனிநபர் கடன்கள்",
			"తక్కువ పత్రాలతో త్వరిత వ్యక్తిగత రుణాలు",
		),
	},
	LoanTypeBusiness: {
		title: i18n.T("Business Loan", "बिज़नेस लोन", "வணிகக் கடன்", "వ్యాపార రుణం"),
		description: i18n.T(
			"Grow your business with flexible financing options",
			"लचीले वित्तपोषण विकल्पों के साथ अपना व्यवसाय बढ़ाएं",
			"நெகிழ்வான நிதி வாய்ப்புகளுடன் உங்கள் வணிகத்தை வளர்த்திடுங்கள்",
			"సౌకర్యవంతమైన ఆర్థిక ఎంపికలతో మీ వ్యాపారాన్ని పెంచుకోండి",
		),
	},
	LoanTypeHome: {
		title: i18n.T("Home Loan", "होम लोन", "வீட்டுக் கடன்", "గృహ రుణం"),
		description: i18n.T(
			"Make your dream home a reality with competitive rates",
			"प्रतिस्पर्धी दरों के साथ अपने सपनों का घर साकार करें",
			"போட்டி வட்டி விகிதங்களுடன் உங்கள் கனவு இல்லத்தை நனவாக்குங்கள்",
			"పోటీ వడ్డీ రేట్లతో మీ కలల ఇంటిని సాకారం చేసుకోండి",
		),
	},
	LoanTypeEducation: {
		title: i18n.T("Education Loan", "एजुकेशन लोन", "கல்விக் கடன்", "విద్యా రుణం"),
		description: i18n.T(
			"Invest in your future with education financing",
			"शिक्षा वित्तपोषण के साथ अपने भविष्य में निवेश करें",
			"கல்வி நிதியுதவியுடன் உங்கள் எதிர்காலத்தில் முதலீடு செய்யுங்கள்",
			"విద్యా రుణంతో మీ భవిష్యత్తుపై పెట్టుబడి పెట్టండి",
		),
	},
}

var (
	welcomeText = i18n.T(
		"Welcome to Virtual Branch Manager",
		"वर्चुअल ब्रांच मैनेजर में आपका स्वागत है",
		"மெய்நிகர் கிளை மேலாளருக்கு வரவேற்கிறோம்",
		"వర్చువల్ బ్రాంచ్ మేనేజర్‌కు స్వాగతం",
	)

	presenterImage = i18n.T(
		"https://images.unsplash.com/photo-1573497019940-1c28c88b4f3e",
		"https://images.unsplash.com/photo-1590650153855-d9e808231d41",
		"https://images.unsplash.com/photo-1573497019940-1c28c88b4f3e",
		"https://images.unsplash.com/photo-1590650153855-d9e808231d41",
	)

	introBlurb = i18n.T(
		"Our AI-powered Virtual Branch Manager will guide you through the loan application process, making it simple and convenient. Please ensure you have your documents ready.",
		"हमारा AI-संचालित वर्चुअल ब्रांच मैनेजर लोन आवेदन प्रक्रिया में आपका मार्गदर्शन करेगा और इसे सरल व सुविधाजनक बनाएगा। कृपया अपने दस्तावेज़ तैयार रखें।",
		"எங்கள் AI-இயக்கப்படும் மெய்நிகர் கிளை மேலாளர் கடன் விண்ணப்ப செயல்முறையில் உங்களுக்கு வழிகாட்டி அதை எளிமையாகவும் வசதியாகவும் ஆக்கும். உங்கள் ஆவணங்களை தயாராக வைத்திருக்கவும்.",
		"మా AI ఆధారిత వర్చువల్ బ్రాంచ్ మేనేజర్ రుణ దరఖాస్తు ప్రక్రియలో మీకు మార్గనిర్దేశం చేసి దానిని సులభంగా, సౌకర్యవంతంగా చేస్తుంది. దయచేసి మీ పత్రాలను సిద్ధంగా ఉంచుకోండి.",
	)
)

type documentContent struct {
	label       i18n.Text
	description i18n.Text
}

var (
	documentsTitle = i18n.T(
		"Document Verification",
		"दस्तावेज़ सत्यापन",
		"ஆவண சரிபார்ப்பு",
		"పత్రాల ధృవీకరణ",
	)
	documentsSubtitle = i18n.T(
		"Please upload clear, readable copies of your documents",
		"कृपया अपने दस्तावेज़ों की स्पष्ट, पढ़ने योग्य प्रतियां अपलोड करें",
		"உங்கள் ஆவணங்களின் தெளிவான, படிக்கக்கூடிய நகல்களை பதிவேற்றவும்",
		"దయచేసి మీ పత్రాల స్పష్టమైన, చదవగలిగే ప్రతులను అప్‌లోడ్ చేయండి",
	)
)

var documentContents = map[DocumentType]documentContent{
	DocumentAadhaar: {
		label: i18n.T("Aadhaar Card", "आधार कार्ड", "ஆதார் கார்டு", "ఆధార్ కార్డు"),
		description: i18n.T(
			"Upload a clear photo or scan of your Aadhaar card",
			"अपने आधार कार्ड की स्पष्ट फोटो या स्कैन अपलोड करें",
			"உங்கள் ஆதார் கார்டின் தெளிவான புகைப்படம் அல்லது ஸ்கேனை பதிவேற்றவும்",
			"మీ ఆధార్ కార్డు యొక్క స్పష్టమైన ఫోటో లేదా స్కాన్‌ను అప్‌లోడ్ చేయండి",
		),
	},
	DocumentPAN: {
		label: i18n.T("PAN Card", "पैन कार्ड", "பான் கார்டு", "పాన్ కార్డు"),
		description: i18n.T(
			"Upload a clear photo or scan of your PAN card",
			"अपने पैन कार्ड की स्पष्ट फोटो या स्कैन अपलोड करें",
			"உங்கள் பான் கார்டின் தெளிவான புகைப்படம் அல்லது ஸ்கேனை பதிவேற்றவும்",
			"మీ పాన్ కార్డు యొక్క స్పష్టమైన ఫోటో లేదా స్కాన్‌ను అప్‌లోడ్ చేయండి",
		),
	},
	DocumentIncomeProof: {
		label: i18n.T("Income Proof", "आय प्रमाण", "வருமான சான்று", "ఆదాయ ధృవీకరణ"),
		description: i18n.T(
			"Salary slips or IT returns for the last 3 months",
			"पिछले 3 महीनों की सैलरी स्लिप या आयकर रिटर्न",
			"கடந்த 3 மாதங்களுக்கான சம்பள சீட்டுகள் அல்லது வருமான வரி அறிக்கைகள்",
			"గత 3 నెలల జీతం స్లిప్పులు లేదా ఆదాయపు పన్ను రిటర్నులు",
		),
	},
	DocumentBankStatements: {
		label: i18n.T("Bank Statements", "बैंक स्टेटमेंट", "வங்கி அறிக்கைகள்", "బ్యాంకు స్టేట్మెంట్లు"),
		description: i18n.T(
			"Last 6 months bank statements",
			"पिछले 6 महीनों के बैंक स्टेटमेंट",
			"கடந்த 6 மாத வங்கி அறிக்கைகள்",
			"గత 6 నెలల బ్యాంకు స్టేట్మెంట్లు",
		),
	},
}

var (
	recorderTitle = i18n.T(
		"Record Your Response",
		"अपना जवाब रिकॉर्ड करें",
		"உங்கள் பதிலை பதிவு செய்யவும்",
		"మీ సమాధానాన్ని రికార్డ్ చేయండి",
	)
	recorderDescription = i18n.T(
		"Please answer the following questions clearly:",
		"कृपया निम्नलिखित प्रश्नों का स्पष्ट उत्तर दें:",
		"பின்வரும் கேள்விகளுக்கு தெளிவாக பதிலளிக்கவும்:",
		"దయచేసి క్రింది ప్రశ్నలకు స్పష్టంగా సమాధానం ఇవ్వండి:",
	)
	recorderQuestions = i18n.Texts{
		i18n.T(
			"What is the purpose of your loan application?",
			"आपके लोन आवेदन का उद्देश्य क्या है?",
			"உங்கள் கடன் விண்ணப்பத்தின் நோக்கம் என்ன?",
			"మీ రుణ దరఖాస్తు ఉద్దేశ్యం ఏమిటి?",
		),
		i18n.T(
			"How do you plan to repay the loan?",
			"आप लोन का भुगतान कैसे करने की योजना बना रहे हैं?",
			"கடனை எவ்வாறு திருப்பிச் செலுத்த திட்டமிடுகிறீர்கள்?",
			"రుణాన్ని ఎలా తిరిగి చెల్లించాలని యోచిస్తున్నారు?",
		),
		i18n.T(
			"What is your current monthly income?",
			"आपकी वर्तमान मासिक आय क्या है?",
			"உங்கள் தற்போதைய மாத வருமானம் என்ன?",
			"మీ ప్రస్తుత నెలవారీ ఆదాయం ఎంత?",
		),
	}
)

type statusContent struct {
	message  i18n.Text
	progress int
}

var statusContents = map[Status]statusContent{
	StatusPending: {
		message: i18n.T(
			"Your application is being processed",
			"आपका आवेदन प्रक्रिया में है",
			"உங்கள் விண்ணப்பம் செயலாக்கப்படுகிறது",
			"మీ దరఖాస్తు ప్రాసెస్ చేయబడుతోంది",
		),
		progress: 60,
	},
	StatusApproved: {
		message: i18n.T(
			"Congratulations! Your loan has been approved 🎉",
			"बधाई हो! आपका लोन मंजूर हो गया है 🎉",
			"வாழ்த்துகள்! உங்கள் கடன் அங்கீகரிக்கப்பட்டது 🎉",
			"అభినందనలు! మీ రుణం ఆమోదించబడింది 🎉",
		),
		progress: 100,
	},
	StatusRejected: {
		message: i18n.T(
			"We regret to inform that your loan application was not approved",
			"हमें खेद है कि आपका लोन आवेदन स्वीकृत नहीं हुआ",
			"உங்கள் கடன் விண்ணப்பம் அங்கீகரிக்கப்படவில்லை என்பதை தெரிவிக்க வருந்துகிறோம்",
			"మీ రుణ దరఖాస్తు ఆమోదించబడలేదని తెలియజేయడానికి చింతిస్తున్నాము",
		),
		progress: 100,
	},
	StatusMoreInfo: {
		message: i18n.T(
			"We need some additional information to process your application",
			"आपके आवेदन को प्रोसेस करने के लिए हमें कुछ अतिरिक्त जानकारी की आवश्यकता है",
			"உங்கள் விண்ணப்பத்தை செயலாக்க கூடுதல் தகவல் தேவை",
			"మీ దరఖాస్తును ప్రాసెస్ చేయడానికి అదనపు సమాచారం అవసరం",
		),
		progress: 80,
	},
}

var approvedNextSteps = i18n.Texts{
	i18n.T(
		"Our representative will contact you within 24 hours",
		"हमारे प्रतिनिधि 24 घंटे के भीतर आपसे संपर्क करेंगे",
		"எங்கள் பிரதிநிதி 24 மணி நேரத்திற்குள் உங்களைத் தொடர்புகொள்வார்",
		"మా ప్రతినిధి 24 గంటల్లోగా మిమ్మల్ని సంప్రదిస్తారు",
	),
	i18n.T(
		"Keep your documents ready for verification",
		"सत्यापन के लिए अपने दस्तावेज़ तैयार रखें",
		"சரிபார்ப்புக்காக உங்கள் ஆவணங்களை தயாராக வைத்திருக்கவும்",
		"ధృవీకరణ కోసం మీ పత్రాలను సిద్ధంగా ఉంచుకోండి",
	),
	i18n.T(
		"Funds will be disbursed after document verification",
		"दस्तावेज़ सत्यापन के बाद राशि जारी की जाएगी",
		"ஆவண சரிபார்ப்புக்குப் பிறகு நிதி வழங்கப்படும்",
		"పత్రాల ధృవీకరణ తర్వాత నిధులు విడుదల చేయబడతాయి",
	),
}
